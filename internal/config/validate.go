package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Spotify credentials are
// checked separately by RequireSpotify.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSpotifyEndpoints(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

// RequireSpotify reports whether OAuth client credentials are configured.
func (c *Config) RequireSpotify() error {
	if strings.TrimSpace(c.Spotify.ClientID) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tunebridge/config.toml"
		}
		return fmt.Errorf("spotify.client_id is required. Set SPOTIFY_CLIENT_ID env var or edit %s (create with 'tunebridge config init')", defaultPath)
	}
	if strings.TrimSpace(c.Spotify.ClientSecret) == "" {
		return errors.New("spotify.client_secret is required (or set SPOTIFY_CLIENT_SECRET)")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateSpotifyEndpoints() error {
	for key, value := range map[string]string{
		"spotify.api_base_url": c.Spotify.APIBaseURL,
		"spotify.accounts_url": c.Spotify.AccountsURL,
		"spotify.redirect_uri": c.Spotify.RedirectURI,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.SearchLimit > maxSearchLimit {
		return fmt.Errorf("matching.search_limit must be between 1 and %d", maxSearchLimit)
	}
	if c.Matching.AddBatchSize > maxAddBatchSize {
		return fmt.Errorf("matching.add_batch_size must be between 1 and %d", maxAddBatchSize)
	}
	return nil
}
