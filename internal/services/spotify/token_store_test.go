package spotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spotify_auth.json")
	store := NewFileTokenStore(path)

	empty, err := store.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if empty.AccessToken != "" {
		t.Fatalf("expected empty state, got %+v", empty)
	}

	want := TokenState{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("permissions = %o, want 600", perm)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestFileTokenStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotify_auth.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileTokenStore(path).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}
