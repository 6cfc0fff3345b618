package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	ReportDir string `toml:"report_dir"`
}

// Spotify contains credentials and endpoints for the remote catalog.
type Spotify struct {
	ClientID       string   `toml:"client_id"`
	ClientSecret   string   `toml:"client_secret"`
	RedirectURI    string   `toml:"redirect_uri"`
	APIBaseURL     string   `toml:"api_base_url"`
	AccountsURL    string   `toml:"accounts_url"`
	Market         string   `toml:"market"`
	Scopes         []string `toml:"scopes"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Matching contains search pacing and playlist creation settings.
type Matching struct {
	SearchLimit           int    `toml:"search_limit"`
	RequestIntervalMillis int    `toml:"request_interval_ms"`
	MaxRetries            int    `toml:"max_retries"`
	AddBatchSize          int    `toml:"add_batch_size"`
	PlaylistPublic        bool   `toml:"playlist_public"`
	PlaylistDescription   string `toml:"playlist_description"`
}

// Cache contains configuration for the search result cache.
type Cache struct {
	Enabled  bool `toml:"enabled"`
	TTLHours int  `toml:"ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for tunebridge.
//
// Configuration sections by subsystem:
//   - Paths: state (tokens, cache, lock), logs, and not-found reports
//   - Spotify: OAuth client credentials and API endpoints
//   - Matching: search result limit, request pacing, playlist settings
//   - Cache: search result cache toggle and TTL
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	Spotify  Spotify  `toml:"spotify"`
	Matching Matching `toml:"matching"`
	Cache    Cache    `toml:"cache"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/tunebridge/config.toml")
}

// Load reads the configuration at path, or discovers one when path is empty,
// then normalizes and validates it. It also returns the resolved path and
// whether a file existed there; a missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// decodeFile rejects unknown keys so typos in section or key names surface.
func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	err = toml.NewDecoder(file).DisallowUnknownFields().Decode(cfg)
	var decodeErr *toml.DecodeError
	var strictErr *toml.StrictMissingError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &decodeErr):
		row, col := decodeErr.Position()
		return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
	case errors.As(err, &strictErr):
		return fmt.Errorf("parse config %s: unknown keys:\n%s", path, strictErr.String())
	default:
		return fmt.Errorf("parse config %s: %w", path, err)
	}
}

// resolveConfigPath honours an explicit path as-is. Otherwise it picks the
// first existing file among the per-user location and ./tunebridge.toml,
// falling back to the per-user location when neither exists.
func resolveConfigPath(explicit string) (string, bool, error) {
	if explicit != "" {
		path, err := ExpandPath(explicit)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(path)
		return path, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := ExpandPath("tunebridge.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat config: %w", err)
	}
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TokenStatePath returns the file holding OAuth token state.
func (c *Config) TokenStatePath() string {
	return filepath.Join(c.Paths.StateDir, "spotify_auth.json")
}

// CacheDBPath returns the SQLite search cache location.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Paths.StateDir, "search_cache.db")
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "tunebridge.lock")
}

// CacheTTL returns the search cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// RequestInterval returns the minimum spacing between remote catalog calls.
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.Matching.RequestIntervalMillis) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout for remote catalog calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Spotify.TimeoutSeconds) * time.Second
}

// ExpandPath resolves a leading "~" to the home directory and returns an
// absolute, cleaned path. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
