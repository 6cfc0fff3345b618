package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tunebridge/internal/library/plist"
)

// Format names an input family.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatTab    Format = "tab"
	FormatPlist  Format = "plist"
	FormatFolder Format = "folder"
)

// ParseFormat validates a user supplied format name. "" means FormatAuto.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatTab, FormatPlist, FormatFolder:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want auto, tab, plist, or folder)", value)
	}
}

// DetectFormat picks a format for path: directories are folders, .xml and
// .plist files or content starting with an XML declaration are plists, and
// everything else is tab-delimited.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return FormatFolder, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".plist":
		return FormatPlist, nil
	case ".txt", ".tsv", ".tab":
		return FormatTab, nil
	}
	head := make([]byte, 512)
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	n, _ := file.Read(head)
	text, err := DecodeText(head[:n])
	if err == nil && looksLikePlist(text) {
		return FormatPlist, nil
	}
	return FormatTab, nil
}

func looksLikePlist(head string) bool {
	head = strings.TrimSpace(strings.TrimPrefix(head, "\ufeff"))
	return strings.HasPrefix(head, "<?xml") || strings.HasPrefix(head, "<plist")
}

// Source is a loaded input: canonical tracks plus, for plist documents, the
// library they came from.
type Source struct {
	Format   Format
	Tracks   []Track
	Library  *Library
	Skipped  int
	Warnings []string
}

// LoadOptions selects what Load reads.
type LoadOptions struct {
	Format Format
	// Playlist restricts a plist document to one playlist's members.
	Playlist string
}

// Load reads path in the requested format and normalizes its tracks. It fails
// with ErrNoTracks when nothing usable remains.
func Load(path string, opts LoadOptions) (*Source, error) {
	format := opts.Format
	if format == "" || format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	src := &Source{Format: format}
	switch format {
	case FormatTab:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tab export: %w", err)
		}
		text, err := DecodeText(raw)
		if err != nil {
			return nil, err
		}
		records, err := DecodeTabular(text)
		if err != nil {
			return nil, err
		}
		src.Tracks = NormalizeTabular(records)
		src.Skipped = len(records) - len(src.Tracks)
	case FormatPlist:
		lib, err := ReadLibrary(path)
		if err != nil {
			return nil, err
		}
		src.Library = lib
		src.Warnings = append(src.Warnings, lib.Warnings...)
		records := lib.AllTracks()
		if name := strings.TrimSpace(opts.Playlist); name != "" {
			playlist, err := lib.PlaylistByName(name)
			if err != nil {
				return nil, err
			}
			records = lib.PlaylistTracks(playlist)
			if missing := lib.MissingMembers(playlist); missing > 0 {
				src.Warnings = append(src.Warnings, fmt.Sprintf("%d playlist items reference unknown tracks", missing))
			}
		}
		src.Tracks = NormalizePlist(records)
		src.Skipped = len(records) - len(src.Tracks)
	case FormatFolder:
		records, unreadable, err := DecodeTagFolder(path)
		if err != nil {
			return nil, err
		}
		src.Tracks = NormalizeTabular(records)
		src.Skipped = unreadable + len(records) - len(src.Tracks)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	if len(src.Tracks) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTracks, path)
	}
	return src, nil
}

// ReadLibrary parses a property-list library document from disk.
func ReadLibrary(path string) (*Library, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library document: %w", err)
	}
	defer file.Close()

	root, err := plist.Parse(file)
	if err != nil {
		return nil, err
	}
	return ExtractLibrary(root)
}
