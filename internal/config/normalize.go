package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpotify()
	c.normalizeMatching()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportDir) == "" {
		c.Paths.ReportDir = defaultReportDir
	}
	if c.Paths.ReportDir, err = ExpandPath(c.Paths.ReportDir); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	if c.Spotify.ClientID == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_ID"); ok {
			c.Spotify.ClientID = strings.TrimSpace(value)
		}
	}
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	if c.Spotify.ClientSecret == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_SECRET"); ok {
			c.Spotify.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Spotify.RedirectURI = strings.TrimSpace(c.Spotify.RedirectURI)
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = defaultSpotifyRedirectURI
	}
	c.Spotify.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Spotify.APIBaseURL), "/")
	if c.Spotify.APIBaseURL == "" {
		c.Spotify.APIBaseURL = defaultSpotifyAPIBaseURL
	}
	c.Spotify.AccountsURL = strings.TrimRight(strings.TrimSpace(c.Spotify.AccountsURL), "/")
	if c.Spotify.AccountsURL == "" {
		c.Spotify.AccountsURL = defaultSpotifyAccountsURL
	}
	c.Spotify.Market = strings.ToUpper(strings.TrimSpace(c.Spotify.Market))
	if len(c.Spotify.Scopes) == 0 {
		c.Spotify.Scopes = append([]string(nil), defaultSpotifyScopes...)
	} else {
		scopes := make([]string, 0, len(c.Spotify.Scopes))
		seen := make(map[string]struct{}, len(c.Spotify.Scopes))
		for _, scope := range c.Spotify.Scopes {
			normalized := strings.TrimSpace(scope)
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			scopes = append(scopes, normalized)
		}
		if len(scopes) == 0 {
			scopes = append(scopes, defaultSpotifyScopes...)
		}
		c.Spotify.Scopes = scopes
	}
	if c.Spotify.TimeoutSeconds <= 0 {
		c.Spotify.TimeoutSeconds = defaultSpotifyTimeoutSeconds
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.SearchLimit <= 0 {
		c.Matching.SearchLimit = defaultSearchLimit
	}
	if c.Matching.RequestIntervalMillis < 0 {
		c.Matching.RequestIntervalMillis = 0
	}
	if c.Matching.MaxRetries < 0 {
		c.Matching.MaxRetries = 0
	}
	if c.Matching.AddBatchSize <= 0 {
		c.Matching.AddBatchSize = defaultAddBatchSize
	}
	c.Matching.PlaylistDescription = strings.TrimSpace(c.Matching.PlaylistDescription)
}

func (c *Config) normalizeCache() {
	if c.Cache.TTLHours < 0 {
		c.Cache.TTLHours = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
