package library

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReportHeader is the header line of a not-found report.
const ReportHeader = ColumnName + "\t" + ColumnArtist + "\t" + ColumnAlbum

var reportFieldReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// WriteNotFoundReport writes unmatched tracks as tab-delimited rows under
// ReportHeader, so the output can be fed back through DecodeTabular.
func WriteNotFoundReport(w io.Writer, tracks []Track) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ReportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, track := range tracks {
		row := strings.Join([]string{
			reportFieldReplacer.Replace(track.Name),
			reportFieldReplacer.Replace(track.Artist),
			reportFieldReplacer.Replace(track.Album),
		}, "\t")
		if _, err := fmt.Fprintln(bw, row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
