package matching

import (
	"strings"

	"tunebridge/internal/library"
)

// Tier identifies which query produced a track's candidates.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
)

// PrimaryQuery builds the field-qualified query for a track. The album term is
// included only when the track has an album.
func PrimaryQuery(track library.Track) string {
	var b strings.Builder
	b.WriteString(`track:`)
	b.WriteString(quote(track.Name))
	b.WriteString(` artist:`)
	b.WriteString(quote(track.Artist))
	if album := strings.TrimSpace(track.Album); album != "" {
		b.WriteString(` album:`)
		b.WriteString(quote(album))
	}
	return b.String()
}

// FallbackQuery builds the free-text query: quoted name and artist, no album.
func FallbackQuery(track library.Track) string {
	return quote(track.Name) + " " + quote(track.Artist)
}

func quote(value string) string {
	return `"` + strings.TrimSpace(strings.ReplaceAll(value, `"`, "")) + `"`
}
