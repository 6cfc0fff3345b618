package library

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Tab-delimited export columns understood by NormalizeTabular.
const (
	ColumnName   = "Name"
	ColumnArtist = "Artist"
	ColumnAlbum  = "Album"
	ColumnYear   = "Year"
	ColumnTime   = "Time"
)

// DecodeText converts raw export bytes to a string. A byte-order mark selects
// UTF-16 (as written by desktop library exports) or UTF-8 and is removed;
// input without one is taken as UTF-8.
func DecodeText(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// DecodeTabular reads tab-separated content. The first non-blank line holds
// the header names; each later non-blank line becomes one record whose values
// are zipped against the headers. Short lines get "" for the missing trailing
// fields and surplus fields are ignored.
func DecodeTabular(content string) ([]Record, error) {
	content = strings.TrimPrefix(content, "\ufeff")

	var (
		headers []string
		records []Record
	)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if headers == nil {
			headers = fields
			continue
		}
		record := NewRecord(len(headers))
		for i, header := range headers {
			value := ""
			if i < len(fields) {
				value = fields[i]
			}
			record.Set(header, StringValue(value))
		}
		records = append(records, record)
	}

	if headers == nil {
		return nil, fmt.Errorf("%w: no header line", ErrEmptyInput)
	}
	return records, nil
}
