package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tunebridge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SPOTIFY_CLIENT_ID", "env-client")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "tunebridge")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Spotify.ClientID != "env-client" {
		t.Fatalf("expected client id from env, got %q", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "env-secret" {
		t.Fatalf("expected client secret from env, got %q", cfg.Spotify.ClientSecret)
	}
	if cfg.Spotify.APIBaseURL != config.Default().Spotify.APIBaseURL {
		t.Fatalf("unexpected api base url: %q", cfg.Spotify.APIBaseURL)
	}
	if cfg.Matching.SearchLimit != 5 {
		t.Fatalf("unexpected search limit: %d", cfg.Matching.SearchLimit)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}
	if cfg.CacheTTL() != 168*time.Hour {
		t.Fatalf("unexpected cache ttl: %s", cfg.CacheTTL())
	}
	if err := cfg.RequireSpotify(); err != nil {
		t.Fatalf("RequireSpotify: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if filepath.Dir(cfg.CacheDBPath()) != cfg.Paths.StateDir {
		t.Fatalf("cache db outside state dir: %q", cfg.CacheDBPath())
	}
	if filepath.Dir(cfg.TokenStatePath()) != cfg.Paths.StateDir {
		t.Fatalf("token state outside state dir: %q", cfg.TokenStatePath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tunebridge.toml")

	type payload struct {
		Spotify struct {
			ClientID   string `toml:"client_id"`
			APIBaseURL string `toml:"api_base_url"`
			Market     string `toml:"market"`
		} `toml:"spotify"`
		Matching struct {
			SearchLimit  int `toml:"search_limit"`
			AddBatchSize int `toml:"add_batch_size"`
		} `toml:"matching"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Spotify.ClientID = "abc123"
	custom.Spotify.APIBaseURL = "https://example.com/v1/"
	custom.Spotify.Market = " gb "
	custom.Matching.SearchLimit = 10
	custom.Matching.AddBatchSize = 50
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Spotify.ClientID != "abc123" {
		t.Fatalf("expected client id from file, got %q", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.APIBaseURL != "https://example.com/v1" {
		t.Fatalf("expected trimmed base url, got %q", cfg.Spotify.APIBaseURL)
	}
	if cfg.Spotify.Market != "GB" {
		t.Fatalf("expected normalized market, got %q", cfg.Spotify.Market)
	}
	if cfg.Matching.SearchLimit != 10 || cfg.Matching.AddBatchSize != 50 {
		t.Fatalf("unexpected matching section: %+v", cfg.Matching)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestFileValuesWinOverEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tunebridge.toml")
	if err := os.WriteFile(configPath, []byte("[spotify]\nclient_id = \"file-client\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SPOTIFY_CLIENT_ID", "env-client")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Spotify.ClientID != "file-client" {
		t.Fatalf("expected file client id, got %q", cfg.Spotify.ClientID)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "client_id") {
		t.Fatalf("sample config missing client_id: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.StateDir, "tunebridge") {
		t.Fatalf("expected state dir to contain tunebridge, got %q", cfg.Paths.StateDir)
	}
	if cfg.Matching.SearchLimit != 5 {
		t.Fatalf("unexpected sample search limit: %d", cfg.Matching.SearchLimit)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Matching.SearchLimit = 51
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for search limit above maximum")
	}

	cfg = config.Default()
	cfg.Matching.AddBatchSize = 101
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for batch size above maximum")
	}

	cfg = config.Default()
	cfg.Spotify.RedirectURI = "callback"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative redirect uri")
	}

	cfg = config.Default()
	cfg.Paths.StateDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty state dir")
	}
}

func TestRequireSpotify(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireSpotify(); err == nil {
		t.Fatal("expected error without client id")
	}
	cfg.Spotify.ClientID = "id"
	if err := cfg.RequireSpotify(); err == nil {
		t.Fatal("expected error without client secret")
	}
	cfg.Spotify.ClientSecret = "secret"
	if err := cfg.RequireSpotify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tunebridge.toml")
	if err := os.WriteFile(configPath, []byte("[matching]\nsearch_limt = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "search_limt") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadReportsSyntaxPosition(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tunebridge.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstate_dir = \n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), configPath+":2:") {
		t.Fatalf("expected position in error, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := config.ExpandPath("~/music/lib.xml")
	if err != nil || got != filepath.Join(home, "music", "lib.xml") {
		t.Fatalf("ExpandPath(~/...) = %q, %v", got, err)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
	if got, _ := config.ExpandPath("rel/../x"); !filepath.IsAbs(got) || filepath.Base(got) != "x" {
		t.Fatalf("relative path not absolutized: %q", got)
	}
}
