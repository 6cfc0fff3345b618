package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tunebridge/internal/library"
	"tunebridge/internal/logging"
	"tunebridge/internal/services"
)

// Searcher runs one catalog search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// Cache stores search results keyed by query and limit.
type Cache interface {
	Get(ctx context.Context, query string, limit int) ([]Candidate, bool, error)
	Put(ctx context.Context, query string, limit int, candidates []Candidate) error
}

// Status is the outcome for one track.
type Status string

const (
	StatusMatched   Status = "matched"
	StatusUnmatched Status = "unmatched"
)

// Result records the outcome for one track.
type Result struct {
	Track     library.Track
	Status    Status
	Candidate *Candidate
	Score     int
	Tier      Tier
	// Err is set when searching failed and the track was degraded to unmatched.
	Err error
}

// Summary collects the results of a Run.
type Summary struct {
	Results []Result
	// URIs holds matched catalog URIs in track order without duplicates.
	URIs      []string
	Unmatched []library.Track
	Failed    int
	CacheHits int
}

// Matched returns the number of matched tracks.
func (s Summary) Matched() int { return len(s.Results) - len(s.Unmatched) }

// Option customises a Matcher.
type Option func(*Matcher)

// WithCache consults and fills cache around every search.
func WithCache(cache Cache) Option {
	return func(m *Matcher) { m.cache = cache }
}

// WithLogger sets the logger used for per-track decisions and progress.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) { m.logger = logger }
}

// WithResultLimit sets the number of candidates requested per search.
func WithResultLimit(limit int) Option {
	return func(m *Matcher) {
		if limit > 0 {
			m.limit = limit
		}
	}
}

// DefaultResultLimit is the candidates requested per search unless overridden.
const DefaultResultLimit = 5

// Matcher resolves tracks against a catalog. It is not safe for concurrent use.
type Matcher struct {
	searcher  Searcher
	cache     Cache
	limit     int
	logger    *slog.Logger
	cacheHits int
}

// NewMatcher constructs a Matcher around searcher.
func NewMatcher(searcher Searcher, opts ...Option) (*Matcher, error) {
	if searcher == nil {
		return nil, errors.New("matching: searcher is nil")
	}
	m := &Matcher{searcher: searcher, limit: DefaultResultLimit}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "matcher")
	return m, nil
}

// Search runs the two-tier search for track: the fallback query is issued
// only when the primary query returns no candidates, and its results are used
// as-is.
func (m *Matcher) Search(ctx context.Context, track library.Track) ([]Candidate, Tier, error) {
	candidates, err := m.lookup(ctx, PrimaryQuery(track))
	if err != nil {
		return nil, TierPrimary, err
	}
	if len(candidates) > 0 {
		return candidates, TierPrimary, nil
	}
	candidates, err = m.lookup(ctx, FallbackQuery(track))
	if err != nil {
		return nil, TierFallback, err
	}
	return candidates, TierFallback, nil
}

func (m *Matcher) lookup(ctx context.Context, query string) ([]Candidate, error) {
	if m.cache != nil {
		cached, ok, err := m.cache.Get(ctx, query, m.limit)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, m.logger), "search cache read failed", "cache_read_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run `tunebridge cache clear` if the cache database is damaged"),
				logging.String(logging.FieldImpact, "search issued without cache"),
			)
		} else if ok {
			m.cacheHits++
			return cached, nil
		}
	}

	candidates, err := m.searcher.Search(ctx, query, m.limit)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Put(ctx, query, m.limit, candidates); err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, m.logger), "search cache write failed", "cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "result will be fetched again next run"),
			)
		}
	}
	return candidates, nil
}

// Match searches for track and selects the best candidate.
func (m *Matcher) Match(ctx context.Context, track library.Track) Result {
	candidates, tier, err := m.Search(ctx, track)
	if err != nil {
		return Result{Track: track, Status: StatusUnmatched, Tier: tier, Err: err}
	}
	best, score := SelectBest(candidates, track)
	if best == nil {
		return Result{Track: track, Status: StatusUnmatched, Tier: tier}
	}
	return Result{Track: track, Status: StatusMatched, Candidate: best, Score: score, Tier: tier}
}

// Run matches tracks sequentially in order. A failed search degrades only that
// track to unmatched. When ctx is cancelled the tracks processed so far are
// returned together with the context error.
func (m *Matcher) Run(ctx context.Context, tracks []library.Track) (summary Summary, err error) {
	summary = Summary{Results: make([]Result, 0, len(tracks))}
	seen := make(map[string]struct{}, len(tracks))
	sampler := logging.NewProgressSampler(10)

	m.cacheHits = 0
	defer func() { summary.CacheHits = m.cacheHits }()
	ctx = services.WithStage(ctx, "search")

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		trackCtx := services.WithTrackIndex(ctx, i+1)
		logger := logging.WithContext(trackCtx, m.logger)
		result := m.Match(trackCtx, track)

		if result.Err != nil && ctx.Err() != nil {
			return summary, ctx.Err()
		}

		switch {
		case result.Err != nil:
			summary.Failed++
			summary.Unmatched = append(summary.Unmatched, track)
			attrs := append(logging.TrackAttrs(track.Name, track.Artist),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, services.Classify(result.Err).Hint()),
				logging.String(logging.FieldImpact, "track added to the not-found report"),
			)
			logging.WarnWithContext(logger, "track search failed; recorded as not found", "search_failed", attrs...)
		case result.Status == StatusUnmatched:
			summary.Unmatched = append(summary.Unmatched, track)
			logger.Debug("no catalog match",
				logging.Args(append(logging.DecisionAttrs("track_match", "unmatched", "no candidates"),
					logging.TrackAttrs(track.Name, track.Artist)...)...)...,
			)
		default:
			if _, dup := seen[result.Candidate.URI]; !dup && result.Candidate.URI != "" {
				seen[result.Candidate.URI] = struct{}{}
				summary.URIs = append(summary.URIs, result.Candidate.URI)
			}
			logger.Debug("catalog match selected",
				logging.Args(append(logging.DecisionAttrsWithScore("track_match", "matched", string(result.Tier), result.Score),
					logging.String("track", track.Name),
					logging.String("candidate", result.Candidate.Name),
					logging.String("candidate_artist", result.Candidate.PrimaryArtistName),
				)...)...,
			)
		}
		summary.Results = append(summary.Results, result)

		if sampler.Due(i+1, len(tracks)) {
			m.logger.Info("matching progress",
				logging.Int("done", i+1),
				logging.Int("total", len(tracks)),
				logging.Int("unmatched", len(summary.Unmatched)),
				logging.String(logging.FieldEventType, "match_progress"),
			)
		}
	}

	return summary, nil
}

// String renders a one-line description of r for console output.
func (r Result) String() string {
	if r.Candidate == nil {
		return fmt.Sprintf("%s - %s: not found", r.Track.Artist, r.Track.Name)
	}
	return fmt.Sprintf("%s - %s -> %s - %s (score %d)", r.Track.Artist, r.Track.Name, r.Candidate.PrimaryArtistName, r.Candidate.Name, r.Score)
}
