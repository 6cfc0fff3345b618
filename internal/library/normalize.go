package library

import (
	"strconv"
	"strings"
)

const (
	plistTotalTimeKey = "Total Time"
	plistAlbumKey     = "Album"
	plistYearKey      = "Year"
)

// Track is the source-independent shape used for matching. Name and Artist
// are always non-empty.
type Track struct {
	Name            string
	Artist          string
	Album           string
	Year            string
	DurationSeconds int
	Source          Record
}

// NormalizePlist maps plist track records to tracks. Duration comes from the
// millisecond Total Time field and the artist falls back to Album Artist.
// Records without a name and artist are dropped.
func NormalizePlist(records []Record) []Track {
	tracks := make([]Track, 0, len(records))
	for _, record := range records {
		artist := record.Text(artistKey)
		if artist == "" {
			artist = record.Text(albumArtistKey)
		}
		millis, _ := record.Int(plistTotalTimeKey)
		track := Track{
			Name:            record.Text(nameKey),
			Artist:          artist,
			Album:           record.Text(plistAlbumKey),
			Year:            record.Text(plistYearKey),
			DurationSeconds: millisToSeconds(millis),
			Source:          record,
		}
		if track.Name == "" || track.Artist == "" {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// NormalizeTabular maps tab-delimited records to tracks. Records without a
// name and artist are dropped.
func NormalizeTabular(records []Record) []Track {
	tracks := make([]Track, 0, len(records))
	for _, record := range records {
		track := Track{
			Name:            record.Text(ColumnName),
			Artist:          record.Text(ColumnArtist),
			Album:           record.Text(ColumnAlbum),
			Year:            record.Text(ColumnYear),
			DurationSeconds: ParseDuration(record.Text(ColumnTime)),
			Source:          record,
		}
		if track.Name == "" || track.Artist == "" {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// ParseDuration reads "M:SS", "H:MM:SS", or bare seconds. Anything else,
// including the empty string, yields 0.
func ParseDuration(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	parts := strings.Split(text, ":")
	switch len(parts) {
	case 2:
		m, okM := atoi(parts[0])
		s, okS := atoi(parts[1])
		if !okM || !okS {
			return 0
		}
		return m*60 + s
	case 3:
		h, okH := atoi(parts[0])
		m, okM := atoi(parts[1])
		s, okS := atoi(parts[2])
		if !okH || !okM || !okS {
			return 0
		}
		return h*3600 + m*60 + s
	default:
		n, ok := atoi(text)
		if !ok {
			return 0
		}
		return n
	}
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// millisToSeconds rounds half away from zero; negative input is treated as 0.
func millisToSeconds(ms int64) int {
	if ms <= 0 {
		return 0
	}
	return int((ms + 500) / 1000)
}
