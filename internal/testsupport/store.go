package testsupport

import (
	"testing"

	"tunebridge/internal/config"
	"tunebridge/internal/matchcache"
)

// MustOpenCache opens the search cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *matchcache.Store {
	t.Helper()

	store, err := matchcache.Open(cfg)
	if err != nil {
		t.Fatalf("matchcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
