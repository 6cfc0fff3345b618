package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tunebridge/internal/logging"
	"tunebridge/internal/services"
)

const (
	defaultBaseURL     = "https://api.spotify.com/v1"
	defaultHTTPTimeout = 30 * time.Second
)

// AuthProvider supplies request authentication headers.
type AuthProvider interface {
	AuthHeaders(ctx context.Context) (http.Header, error)
}

// Config describes the Spotify API client configuration.
type Config struct {
	BaseURL     string
	Market      string
	Auth        AuthProvider
	HTTPClient  HTTPDoer
	MinInterval time.Duration
	// MaxRetries bounds retries after the first attempt. Negative disables retries.
	MaxRetries int
	Logger     *slog.Logger
	// Sleep replaces SleepWithContext between retries (used in tests).
	Sleep func(context.Context, time.Duration) error
}

// Client wraps the Spotify Web API endpoints used for playlist import.
type Client struct {
	baseURL    *url.URL
	market     string
	auth       AuthProvider
	http       HTTPDoer
	pacer      *pacer
	maxRetries int
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	if cfg.Auth == nil {
		return nil, errors.New("spotify: auth provider is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("spotify: parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}
	if retries < 0 {
		retries = 0
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = SleepWithContext
	}
	return &Client{
		baseURL:    baseURL,
		market:     strings.ToUpper(strings.TrimSpace(cfg.Market)),
		auth:       cfg.Auth,
		http:       httpClient,
		pacer:      &pacer{interval: cfg.MinInterval},
		maxRetries: retries,
		logger:     logging.NewComponentLogger(cfg.Logger, "spotify"),
		sleep:      sleep,
	}, nil
}

// do issues one API call with pacing and retries. body, when non-nil, is sent
// as JSON; out, when non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method string, endpoint *url.URL, body any, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("spotify: encode request: %w", err)
		}
		payload = encoded
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			var retryAfter time.Duration
			var statusErr *StatusError
			if errors.As(lastErr, &statusErr) {
				retryAfter = statusErr.RetryAfter
			}
			delay := backoffDelay(attempt, retryAfter)
			logging.WithContext(ctx, c.logger).Debug("retrying spotify request",
				logging.String("path", endpoint.Path),
				logging.Int("attempt", attempt),
				logging.Duration("delay", delay),
				logging.Error(lastErr),
			)
			if err := c.sleep(ctx, delay); err != nil {
				return err
			}
		}

		lastErr = c.attempt(ctx, method, endpoint, payload, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsRetriable(lastErr) {
			return classify(method, endpoint, lastErr)
		}
	}
	return services.Wrap(services.ErrTransient, "spotify", method+" "+endpoint.Path,
		fmt.Sprintf("giving up after %d attempts", c.maxRetries+1), lastErr)
}

func (c *Client) attempt(ctx context.Context, method string, endpoint *url.URL, payload []byte, out any) error {
	if err := c.pacer.wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("spotify: build request: %w", err)
	}
	headers, err := c.auth.AuthHeaders(ctx)
	if err != nil {
		return err
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("spotify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Body:       string(body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify: decode response: %w", err)
	}
	return nil
}

func classify(method string, endpoint *url.URL, err error) error {
	operation := method + " " + endpoint.Path
	if errors.Is(err, ErrAuthorizationMissing) {
		return services.Wrap(services.ErrConfiguration, "spotify", operation, "run `tunebridge auth login` first", err)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "spotify", operation, "request not authorized", err)
		case http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "spotify", operation, "", err)
		case http.StatusBadRequest:
			return services.Wrap(services.ErrValidation, "spotify", operation, "", err)
		}
		return services.Wrap(services.ErrExternalTool, "spotify", operation, "", err)
	}
	return services.Wrap(services.ErrExternalTool, "spotify", operation, "", err)
}

func (c *Client) endpoint(segments ...string) *url.URL {
	return c.baseURL.JoinPath(segments...)
}
