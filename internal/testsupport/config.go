package testsupport

import (
	"path/filepath"
	"testing"

	"tunebridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Spotify credentials are filled with placeholders so RequireSpotify passes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ReportDir = filepath.Join(base, "reports")
	cfgVal.Spotify.ClientID = "test-client"
	cfgVal.Spotify.ClientSecret = "test-secret"
	cfgVal.Spotify.RedirectURI = "http://127.0.0.1:0/callback"
	cfgVal.Matching.RequestIntervalMillis = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithSpotifyServer points both the API and accounts endpoints at baseURL,
// typically an httptest server.
func WithSpotifyServer(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Spotify.APIBaseURL = baseURL + "/v1"
		b.cfg.Spotify.AccountsURL = baseURL
	}
}

// WithoutCredentials clears the Spotify client credentials.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Spotify.ClientID = ""
		b.cfg.Spotify.ClientSecret = ""
	}
}

// WithCache toggles the search cache.
func WithCache(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = enabled
	}
}
