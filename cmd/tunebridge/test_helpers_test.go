package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tunebridge/internal/testsupport"
)

// fakeSpotify records the playlist calls made by the CLI.
type fakeSpotify struct {
	mu       sync.Mutex
	searches []string
	created  []string
	added    []string
	server   *httptest.Server
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()
	fake := &fakeSpotify{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "refreshed", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		fake.mu.Lock()
		fake.searches = append(fake.searches, q)
		fake.mu.Unlock()
		if strings.Contains(q, "Let It Be") {
			_, _ = w.Write([]byte(`{"tracks":{"items":[{"id":"1","name":"Let It Be","uri":"spotify:track:1","duration_ms":243000,"artists":[{"name":"The Beatles"}],"album":{"name":"Let It Be"}}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"tracks":{"items":[]}}`))
	})
	mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"owner-1"}`))
	})
	mux.HandleFunc("/v1/users/owner-1/playlists", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		fake.mu.Lock()
		fake.created = append(fake.created, body.Name)
		fake.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pl-1","uri":"spotify:playlist:pl-1","external_urls":{"spotify":"https://open.spotify.com/playlist/pl-1"}}`))
	})
	mux.HandleFunc("/v1/playlists/pl-1/tracks", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URIs []string `json:"uris"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		fake.mu.Lock()
		fake.added = append(fake.added, body.URIs...)
		fake.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"snapshot_id":"s1"}`))
	})
	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *fakeSpotify) snapshot() (searches, created, added []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...), append([]string(nil), f.created...), append([]string(nil), f.added...)
}

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	reportDir  string
	spotify    *fakeSpotify
}

func setupCLITestEnv(t *testing.T, linked bool) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")

	fake := newFakeSpotify(t)
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		stateDir:   filepath.Join(base, "state"),
		reportDir:  filepath.Join(base, "reports"),
		spotify:    fake,
	}
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q
report_dir = %q

[spotify]
client_id = "test-client"
client_secret = "test-secret"
redirect_uri = "http://127.0.0.1:0/callback"
api_base_url = %q
accounts_url = %q

[matching]
request_interval_ms = 0
max_retries = 1

[logging]
level = "error"
`, env.stateDir, filepath.Join(base, "logs"), env.reportDir, fake.server.URL+"/v1", fake.server.URL)
	testsupport.WriteFile(t, env.configPath, content)

	if linked {
		testsupport.WriteTokenState(t, filepath.Join(env.stateDir, "spotify_auth.json"), "access", "refresh", time.Now().Add(time.Hour))
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if env != nil {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
