package matchcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"tunebridge/internal/matching"
)

var _ matching.Cache = (*Store)(nil)

// Stats summarises cache contents.
type Stats struct {
	Path      string
	Entries   int
	Expired   int
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
}

func (s *Store) expiryCutoff() (int64, bool) {
	if s.ttl <= 0 {
		return 0, false
	}
	return s.now().Add(-s.ttl).Unix(), true
}

// Get returns cached candidates for query and limit. The boolean reports a
// hit; expired entries are misses.
func (s *Store) Get(ctx context.Context, query string, limit int) ([]matching.Candidate, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}

	var (
		payload  string
		storedAt int64
	)
	err := whileBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT candidates_json, stored_at FROM search_results WHERE query = ? AND result_limit = ?`,
			query, limit,
		).Scan(&payload, &storedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached search: %w", err)
	}
	if cutoff, ok := s.expiryCutoff(); ok && storedAt < cutoff {
		return nil, false, nil
	}

	var candidates []matching.Candidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, false, fmt.Errorf("decode cached search: %w", err)
	}
	return candidates, true, nil
}

// Put stores candidates for query and limit, replacing any existing entry.
func (s *Store) Put(ctx context.Context, query string, limit int, candidates []matching.Candidate) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if candidates == nil {
		candidates = []matching.Candidate{}
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode cached search: %w", err)
	}
	_, err = s.exec(ctx,
		`INSERT INTO search_results (query, result_limit, candidates_json, candidate_count, stored_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(query, result_limit) DO UPDATE SET
		   candidates_json = excluded.candidates_json,
		   candidate_count = excluded.candidate_count,
		   stored_at = excluded.stored_at`,
		query, limit, string(payload), len(candidates), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store cached search: %w", err)
	}
	return nil
}

// Stats reports entry counts and the cache file size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}

	var oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), MIN(stored_at), MAX(stored_at) FROM search_results`,
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	if cutoff, ok := s.expiryCutoff(); ok {
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM search_results WHERE stored_at < ?`, cutoff,
		).Scan(&stats.Expired); err != nil {
			return stats, fmt.Errorf("cache stats: %w", err)
		}
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// Prune removes expired entries and returns how many were deleted.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	cutoff, ok := s.expiryCutoff()
	if !ok {
		return 0, nil
	}
	res, err := s.exec(ctx, `DELETE FROM search_results WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM search_results`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return res.RowsAffected()
}
