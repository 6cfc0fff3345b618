package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if age > 0 {
		stamp := time.Now().Add(-age)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPruneRunLogsRemovesStaleRuns(t *testing.T) {
	dir := t.TempDir()
	tenDays := 10 * 24 * time.Hour
	stale := RunLogPath(dir, "old")
	fresh := RunLogPath(dir, "new")
	current := RunLogPath(dir, "current")
	unrelated := filepath.Join(dir, "notes.log")
	writeAged(t, stale, tenDays)
	writeAged(t, fresh, 0)
	writeAged(t, current, tenDays)
	writeAged(t, unrelated, tenDays)

	if got := PruneRunLogs(NewNop(), dir, 3, current); got != 1 {
		t.Fatalf("removed = %d, want 1", got)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", stale)
	}
	for _, p := range []string{fresh, current, unrelated} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", p, err)
		}
	}
}

func TestPruneRunLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	p := RunLogPath(dir, "old")
	writeAged(t, p, 60*24*time.Hour)

	if got := PruneRunLogs(nil, dir, 0, ""); got != 0 {
		t.Fatalf("removed = %d with retention disabled", got)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("retention 0 should keep files: %v", err)
	}
}
