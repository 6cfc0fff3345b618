package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxAddBatchSize is the most items the add-tracks endpoint takes per call.
const MaxAddBatchSize = 100

// PlaylistHandle identifies a playlist created on the account.
type PlaylistHandle struct {
	ID          string
	URI         string
	ExternalURL string
}

type userResponse struct {
	ID string `json:"id"`
}

type playlistResponse struct {
	ID           string `json:"id"`
	URI          string `json:"uri"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

// CurrentUserID returns the id of the linked account.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	var payload userResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("me"), nil, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", errors.New("spotify: profile response missing id")
	}
	return payload.ID, nil
}

// CreatePlaylist creates an empty playlist owned by ownerID.
func (c *Client) CreatePlaylist(ctx context.Context, ownerID, name, description string, public bool) (PlaylistHandle, error) {
	ownerID = strings.TrimSpace(ownerID)
	name = strings.TrimSpace(name)
	if ownerID == "" || name == "" {
		return PlaylistHandle{}, errors.New("spotify: owner id and playlist name are required")
	}

	var payload playlistResponse
	body := createPlaylistRequest{Name: name, Description: description, Public: public}
	if err := c.do(ctx, http.MethodPost, c.endpoint("users", ownerID, "playlists"), body, &payload); err != nil {
		return PlaylistHandle{}, err
	}
	return PlaylistHandle{ID: payload.ID, URI: payload.URI, ExternalURL: payload.ExternalURLs.Spotify}, nil
}

// AddTracks appends uris to the playlist in order, batchSize at a time
// (capped at MaxAddBatchSize).
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string, batchSize int) error {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return errors.New("spotify: playlist id is required")
	}
	if batchSize <= 0 || batchSize > MaxAddBatchSize {
		batchSize = MaxAddBatchSize
	}

	for start := 0; start < len(uris); start += batchSize {
		end := min(start+batchSize, len(uris))
		body := addTracksRequest{URIs: uris[start:end]}
		if err := c.do(ctx, http.MethodPost, c.endpoint("playlists", playlistID, "tracks"), body, nil); err != nil {
			return fmt.Errorf("add tracks %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}
