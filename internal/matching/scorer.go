package matching

import (
	"strings"

	"tunebridge/internal/library"
	"tunebridge/internal/textutil"
)

// Candidate is one track returned by a catalog search.
type Candidate struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	PrimaryArtistName string `json:"artist"`
	AlbumName         string `json:"album"`
	DurationMillis    int64  `json:"duration_ms"`
	URI               string `json:"uri"`
}

const (
	exactFieldPoints     = 10
	partialFieldPoints   = 5
	exactAlbumPoints     = 3
	partialAlbumPoints   = 1
	closeDurationPoints  = 2
	nearDurationPoints   = 1
	closeDurationMillis  = 2000
	nearDurationMillis   = 5000
)

// Score rates how well candidate matches track. Name and artist are worth up
// to 10 each, album up to 3 when the track has one, and duration up to 2 when
// both durations are known.
func Score(candidate Candidate, track library.Track) int {
	score := tieredMatch(candidate.Name, track.Name, exactFieldPoints, partialFieldPoints)
	score += tieredMatch(candidate.PrimaryArtistName, track.Artist, exactFieldPoints, partialFieldPoints)

	if strings.TrimSpace(track.Album) != "" {
		score += tieredMatch(candidate.AlbumName, track.Album, exactAlbumPoints, partialAlbumPoints)
	}

	// Local durations are whole seconds; the remote side keeps its milliseconds.
	if track.DurationSeconds != 0 && candidate.DurationMillis > 0 {
		diff := int64(track.DurationSeconds)*1000 - candidate.DurationMillis
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= closeDurationMillis:
			score += closeDurationPoints
		case diff <= nearDurationMillis:
			score += nearDurationPoints
		}
	}
	return score
}

func tieredMatch(remote, local string, exact, partial int) int {
	a := textutil.NormalizeForMatch(remote)
	b := textutil.NormalizeForMatch(local)
	switch {
	case a == b:
		return exact
	case textutil.ContainsEither(a, b):
		return partial
	default:
		return 0
	}
}

// SelectBest returns the best scoring candidate and its score. No candidates
// yields nil, and a single candidate is returned unscored with score 0. A
// later candidate only replaces the current best with a strictly higher score.
func SelectBest(candidates []Candidate, track library.Track) (*Candidate, int) {
	switch len(candidates) {
	case 0:
		return nil, 0
	case 1:
		best := candidates[0]
		return &best, 0
	}

	bestIndex, bestScore := 0, 0
	for i, candidate := range candidates {
		if score := Score(candidate, track); score > bestScore {
			bestIndex, bestScore = i, score
		}
	}
	best := candidates[bestIndex]
	return &best, bestScore
}
