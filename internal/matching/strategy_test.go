package matching

import (
	"testing"

	"tunebridge/internal/library"
)

func TestPrimaryQuery(t *testing.T) {
	track := library.Track{Name: "Let It Be", Artist: "The Beatles"}
	if got := PrimaryQuery(track); got != `track:"Let It Be" artist:"The Beatles"` {
		t.Fatalf("PrimaryQuery = %q", got)
	}
	track.Album = "Let It Be"
	if got := PrimaryQuery(track); got != `track:"Let It Be" artist:"The Beatles" album:"Let It Be"` {
		t.Fatalf("PrimaryQuery with album = %q", got)
	}
}

func TestFallbackQueryOmitsAlbum(t *testing.T) {
	track := library.Track{Name: `12" Mix`, Artist: "DJ", Album: "Singles"}
	if got := FallbackQuery(track); got != `"12 Mix" "DJ"` {
		t.Fatalf("FallbackQuery = %q", got)
	}
}
