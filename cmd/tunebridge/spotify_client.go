package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"tunebridge/internal/config"
	"tunebridge/internal/services"
	"tunebridge/internal/services/spotify"
)

func newTokenManager(cfg *config.Config) (*spotify.TokenManager, error) {
	if err := cfg.RequireSpotify(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load credentials", "", err)
	}
	tokens, err := spotify.NewTokenManager(cfg, spotify.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}))
	if err != nil {
		return nil, fmt.Errorf("load spotify auth state: %w", err)
	}
	return tokens, nil
}

// newSpotifyClient builds an API client for a linked account.
func newSpotifyClient(cfg *config.Config, logger *slog.Logger) (*spotify.Client, error) {
	tokens, err := newTokenManager(cfg)
	if err != nil {
		return nil, err
	}
	if !tokens.HasAuthorization() {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load token", "run `tunebridge auth login` first", spotify.ErrAuthorizationMissing)
	}

	retries := cfg.Matching.MaxRetries
	if retries == 0 {
		retries = -1
	}
	return spotify.New(spotify.Config{
		BaseURL:     cfg.Spotify.APIBaseURL,
		Market:      cfg.Spotify.Market,
		Auth:        tokens,
		HTTPClient:  &http.Client{Timeout: cfg.HTTPTimeout()},
		MinInterval: cfg.RequestInterval(),
		MaxRetries:  retries,
		Logger:      logger,
	})
}
