package spotify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrStateMismatch is returned when the callback state does not match the
// value sent to the consent page.
var ErrStateMismatch = errors.New("spotify: authorization state mismatch")

// CallbackResult carries the outcome of the authorization redirect.
type CallbackResult struct {
	Code string
	Err  error
}

// CallbackServer receives the authorization-code redirect on the loopback
// address named by the configured redirect URI.
type CallbackServer struct {
	listener net.Listener
	server   *http.Server
	results  chan CallbackResult
	path     string
	state    string
}

// ListenForCallback starts serving redirectURI, which must use an http
// loopback host such as 127.0.0.1:8888.
func ListenForCallback(redirectURI, state string) (*CallbackServer, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("spotify: parse redirect uri: %w", err)
	}
	if parsed.Scheme != "http" || parsed.Host == "" {
		return nil, fmt.Errorf("spotify: redirect uri %q must be an http loopback address", redirectURI)
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}

	listener, err := net.Listen("tcp", parsed.Host)
	if err != nil {
		return nil, fmt.Errorf("spotify: listen on %s: %w", parsed.Host, err)
	}

	cb := &CallbackServer{
		listener: listener,
		results:  make(chan CallbackResult, 1),
		path:     path,
		state:    state,
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, cb.handle)
	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := cb.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cb.deliver(CallbackResult{Err: fmt.Errorf("spotify: callback server: %w", err)})
		}
	}()
	return cb, nil
}

// Addr returns the address the server listens on.
func (s *CallbackServer) Addr() string { return s.listener.Addr().String() }

func (s *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch {
	case query.Get("state") != s.state:
		http.Error(w, "state mismatch; restart the login", http.StatusBadRequest)
		s.deliver(CallbackResult{Err: ErrStateMismatch})
	case query.Get("error") != "":
		http.Error(w, "authorization denied", http.StatusForbidden)
		s.deliver(CallbackResult{Err: fmt.Errorf("spotify: authorization denied: %s", query.Get("error"))})
	case strings.TrimSpace(query.Get("code")) == "":
		http.Error(w, "missing code", http.StatusBadRequest)
		s.deliver(CallbackResult{Err: errors.New("spotify: callback missing code")})
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("tunebridge is linked. You can close this window.\n"))
		s.deliver(CallbackResult{Code: query.Get("code")})
	}
}

func (s *CallbackServer) deliver(result CallbackResult) {
	select {
	case s.results <- result:
	default:
	}
}

// Wait blocks until the redirect arrives or ctx ends, then shuts the server down.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	defer s.Close()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-s.results:
		return result.Code, result.Err
	}
}

// Close stops the server.
func (s *CallbackServer) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
