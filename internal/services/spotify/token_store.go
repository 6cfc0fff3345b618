package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TokenState is the persisted OAuth state for the linked account.
type TokenState struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	ExpiresAt    time.Time `json:"expires_at"`
	LinkedAt     time.Time `json:"linked_at"`
}

// TokenStore abstracts persistence for Spotify authentication state.
type TokenStore interface {
	Load() (TokenState, error)
	Save(TokenState) error
}

// FileTokenStore writes token state to a JSON file on disk.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore builds a FileTokenStore rooted at the provided path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the file backing the store.
func (s *FileTokenStore) Path() string { return s.path }

// Load reads token state from disk. A missing file resolves to an empty state.
func (s *FileTokenStore) Load() (TokenState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TokenState{}, nil
		}
		return TokenState{}, fmt.Errorf("read spotify auth state: %w", err)
	}

	var state TokenState
	if err := json.Unmarshal(data, &state); err != nil {
		return TokenState{}, fmt.Errorf("decode spotify auth state: %w", err)
	}
	return state, nil
}

// Save persists token state to disk with restricted permissions. The file is
// replaced atomically so a crash never leaves a truncated token file.
func (s *FileTokenStore) Save(state TokenState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("ensure auth state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode spotify auth state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".spotify_auth-*.json")
	if err != nil {
		return fmt.Errorf("create auth state temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod auth state temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write spotify auth state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close auth state temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace spotify auth state: %w", err)
	}
	return nil
}
