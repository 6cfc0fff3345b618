package spotify

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tunebridge/internal/matching"
)

// MaxSearchLimit is the largest page size the search endpoint accepts.
const MaxSearchLimit = 50

type searchResponse struct {
	Tracks struct {
		Items []trackObject `json:"items"`
	} `json:"tracks"`
}

type trackObject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
	DurationMS int64  `json:"duration_ms"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name string `json:"name"`
	} `json:"album"`
}

func (t trackObject) candidate() matching.Candidate {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	return matching.Candidate{
		ID:                t.ID,
		Name:              t.Name,
		PrimaryArtistName: artist,
		AlbumName:         t.Album.Name,
		DurationMillis:    t.DurationMS,
		URI:               t.URI,
	}
}

// Search runs a track search and returns candidates in catalog relevance order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]matching.Candidate, error) {
	if c == nil {
		return nil, errors.New("spotify: client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = matching.DefaultResultLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	endpoint := c.endpoint("search")
	params := endpoint.Query()
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		params.Set("market", c.market)
	}
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		if item.URI == "" {
			continue
		}
		candidates = append(candidates, item.candidate())
	}
	return candidates, nil
}
