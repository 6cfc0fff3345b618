package logs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tunebridge/internal/logging"
)

// ErrNoLogs is returned when the log directory holds no run logs.
var ErrNoLogs = errors.New("no run logs found")

// RunLog is one per-run log file.
type RunLog struct {
	Path       string
	ModifiedAt time.Time
	Size       int64
}

// ListRuns returns the run logs in dir, newest first.
func ListRuns(dir string) ([]RunLog, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.RunLogPattern))
	if err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}
	runs := make([]RunLog, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		runs = append(runs, RunLog{Path: path, ModifiedAt: info.ModTime(), Size: info.Size()})
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].ModifiedAt.After(runs[j].ModifiedAt)
	})
	return runs, nil
}

// Latest returns the most recently written run log in dir.
func Latest(dir string) (RunLog, error) {
	runs, err := ListRuns(dir)
	if err != nil {
		return RunLog{}, err
	}
	if len(runs) == 0 {
		return RunLog{}, fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}
	return runs[0], nil
}

// ForRun returns the log file for runID, or a prefix of it.
func ForRun(dir, runID string) (RunLog, error) {
	exact := logging.RunLogPath(dir, runID)
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return RunLog{Path: exact, ModifiedAt: info.ModTime(), Size: info.Size()}, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "tunebridge-"+runID+"*.log"))
	if err != nil {
		return RunLog{}, fmt.Errorf("find run log: %w", err)
	}
	switch len(matches) {
	case 0:
		return RunLog{}, fmt.Errorf("%w for run %q in %s", ErrNoLogs, runID, dir)
	case 1:
		info, err := os.Stat(matches[0])
		if err != nil {
			return RunLog{}, fmt.Errorf("stat run log: %w", err)
		}
		return RunLog{Path: matches[0], ModifiedAt: info.ModTime(), Size: info.Size()}, nil
	default:
		return RunLog{}, fmt.Errorf("run id %q matches %d logs; give more characters", runID, len(matches))
	}
}
