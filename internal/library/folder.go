package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// AudioExtensions lists the file types DecodeTagFolder reads tags from.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// IsAudioFile reports whether name has one of AudioExtensions.
func IsAudioFile(name string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(name))]
}

// DecodeTagFolder walks root for audio files and returns one tab-shaped record
// per file with embedded tags, in lexical path order. Files whose tags cannot
// be read are skipped and counted in skipped.
func DecodeTagFolder(root string) (records []Record, skipped int, err error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, 0, fmt.Errorf("stat music folder: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("music folder %s is not a directory", root)
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				skipped++
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return err
		}
		if d.IsDir() || !IsAudioFile(d.Name()) {
			return nil
		}
		record, readErr := readTagRecord(path)
		if readErr != nil {
			skipped++
			return nil
		}
		records = append(records, record)
		return nil
	})
	if walkErr != nil {
		return nil, skipped, fmt.Errorf("walk music folder: %w", walkErr)
	}
	return records, skipped, nil
}

func readTagRecord(path string) (Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return Record{}, fmt.Errorf("read tags %s: %w", path, err)
	}

	artist := metadata.Artist()
	if strings.TrimSpace(artist) == "" {
		artist = metadata.AlbumArtist()
	}
	year := ""
	if metadata.Year() != 0 {
		year = strconv.Itoa(metadata.Year())
	}

	record := NewRecord(5)
	record.Set(ColumnName, StringValue(metadata.Title()))
	record.Set(ColumnArtist, StringValue(artist))
	record.Set(ColumnAlbum, StringValue(metadata.Album()))
	record.Set(ColumnYear, StringValue(year))
	record.Set(ColumnTime, StringValue(""))
	return record, nil
}
