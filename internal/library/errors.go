package library

import (
	"errors"

	"tunebridge/internal/library/plist"
)

var (
	// ErrEmptyInput marks tab-delimited content without any non-blank line.
	ErrEmptyInput = errors.New("library input is empty")
	// ErrStructural marks plist documents that lack a top-level dict.
	ErrStructural = plist.ErrStructural
	// ErrNotFound marks a playlist lookup by a name the library does not contain.
	ErrNotFound = errors.New("playlist not found")
	// ErrNoTracks marks inputs where no usable track remains after normalization.
	ErrNoTracks = errors.New("no usable tracks")
)
