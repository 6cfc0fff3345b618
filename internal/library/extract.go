package library

import (
	"fmt"
	"strconv"
	"strings"

	"tunebridge/internal/library/plist"
)

const (
	tracksKey      = "Tracks"
	playlistsKey   = "Playlists"
	masterKey      = "Master"
	parentIDKey    = "Parent Persistent ID"
	nameKey        = "Name"
	artistKey      = "Artist"
	albumArtistKey = "Album Artist"
)

// Playlist is one playlist declared by a library document.
type Playlist struct {
	Name         string
	ItemTrackIDs []int64
	IsMaster     bool
	IsFolder     bool
}

// Library is the decoded content of a property-list library document.
type Library struct {
	// Tracks maps a declared track id to its record. A repeated id keeps the
	// record seen last.
	Tracks    map[int64]Record
	Playlists []Playlist
	// Warnings lists non-fatal problems found while extracting.
	Warnings []string

	trackOrder []int64
}

// ExtractLibrary builds the track index and playlist list from the top-level
// dict of a library document. Missing Tracks or Playlists sections produce
// warnings and empty collections.
func ExtractLibrary(root *plist.Node) (*Library, error) {
	if !root.IsDict() {
		return nil, fmt.Errorf("%w: no top-level dict", ErrStructural)
	}

	lib := &Library{Tracks: make(map[int64]Record)}
	top := DecodeDict(root, 0)

	if tracks := sectionNode(root, top, tracksKey, plist.KindDict); tracks != nil {
		lib.extractTracks(tracks)
	} else {
		lib.warnf("library has no %s dict", tracksKey)
	}

	if playlists := sectionNode(root, top, playlistsKey, plist.KindArray); playlists != nil {
		lib.extractPlaylists(playlists)
	} else {
		lib.warnf("library has no %s array", playlistsKey)
	}

	return lib, nil
}

// sectionNode finds the nested node for a declared top-level key. The decoded
// value is used when it already is a node of the wanted kind; otherwise the
// first nested child of that kind stands in, provided the key is declared.
func sectionNode(root *plist.Node, top Record, key string, kind plist.Kind) *plist.Node {
	if !root.HasKey(key) {
		return nil
	}
	if v, ok := top.Get(key); ok && v.Kind() == KindNode && v.Node() != nil && v.Node().Kind == kind {
		return v.Node()
	}
	return root.FirstChild(kind)
}

func (l *Library) extractTracks(tracks *plist.Node) {
	index := DecodeDict(tracks, 1)
	skipped := 0
	for _, key := range index.Keys() {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			l.warnf("track key %q is not an integer id", key)
			continue
		}
		value, _ := index.Get(key)
		if value.Kind() != KindNode || !value.Node().IsDict() {
			l.warnf("track %d has no dict value", id)
			continue
		}
		record := DecodeDict(value.Node(), 2)
		record.Set(TrackIDKey, IntegerValue(id))
		if record.Text(nameKey) == "" || (record.Text(artistKey) == "" && record.Text(albumArtistKey) == "") {
			skipped++
			continue
		}
		if _, dup := l.Tracks[id]; dup {
			l.warnf("track id %d declared more than once; keeping the later entry", id)
		} else {
			l.trackOrder = append(l.trackOrder, id)
		}
		l.Tracks[id] = record
	}
	if skipped > 0 {
		l.warnf("%d tracks skipped without name and artist", skipped)
	}
}

func (l *Library) extractPlaylists(playlists *plist.Node) {
	for _, child := range playlists.Children {
		if !child.IsDict() {
			continue
		}
		record := DecodeDict(child, 2)
		name := record.Text(nameKey)
		if name == "" {
			continue
		}
		p := Playlist{
			Name:     name,
			IsMaster: record.Has(masterKey),
			IsFolder: record.Has(parentIDKey),
		}
		if items, ok := record.Get(PlaylistItemsKey); ok {
			for _, item := range items.List() {
				if id, ok := item.Int(TrackIDKey); ok {
					p.ItemTrackIDs = append(p.ItemTrackIDs, id)
				}
			}
		}
		l.Playlists = append(l.Playlists, p)
	}
}

func (l *Library) warnf(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// PlaylistByName returns the playlist whose name equals name exactly.
func (l *Library) PlaylistByName(name string) (Playlist, error) {
	for _, p := range l.Playlists {
		if p.Name == name {
			return p, nil
		}
	}
	return Playlist{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// ListPlaylists returns user playlists, leaving out the library master
// playlist and folder entries.
func (l *Library) ListPlaylists() []Playlist {
	out := make([]Playlist, 0, len(l.Playlists))
	for _, p := range l.Playlists {
		if p.IsMaster || p.IsFolder {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PlaylistTracks resolves playlist members to track records in playlist
// order. Ids without a track are dropped.
func (l *Library) PlaylistTracks(p Playlist) []Record {
	out := make([]Record, 0, len(p.ItemTrackIDs))
	for _, id := range p.ItemTrackIDs {
		if record, ok := l.Tracks[id]; ok {
			out = append(out, record)
		}
	}
	return out
}

// MissingMembers counts playlist ids that do not resolve to a track.
func (l *Library) MissingMembers(p Playlist) int {
	missing := 0
	for _, id := range p.ItemTrackIDs {
		if _, ok := l.Tracks[id]; !ok {
			missing++
		}
	}
	return missing
}

// AllTracks returns every track record in declaration order.
func (l *Library) AllTracks() []Record {
	out := make([]Record, 0, len(l.trackOrder))
	for _, id := range l.trackOrder {
		out = append(out, l.Tracks[id])
	}
	return out
}
