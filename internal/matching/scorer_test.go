package matching

import (
	"testing"

	"tunebridge/internal/library"
)

func TestSelectBestLetItBe(t *testing.T) {
	track := library.Track{Name: "Let It Be", Artist: "The Beatles", DurationSeconds: 243}
	candidates := []Candidate{
		{Name: "let it be!", PrimaryArtistName: "Beatles, The", DurationMillis: 245000, URI: "spotify:track:first"},
		{Name: "Let It Be (Remastered)", PrimaryArtistName: "The Beatles", DurationMillis: 243000, URI: "spotify:track:second"},
	}

	best, score := SelectBest(candidates, track)
	if best == nil || best.URI != "spotify:track:second" {
		t.Fatalf("SelectBest picked %+v, want second candidate", best)
	}
	if score != 17 {
		t.Fatalf("score = %d, want 17", score)
	}
	if got := Score(candidates[0], track); got != 12 {
		t.Fatalf("first candidate score = %d, want 12", got)
	}
}

func TestSelectBestEmptyAndSingle(t *testing.T) {
	track := library.Track{Name: "A", Artist: "B"}
	if best, score := SelectBest(nil, track); best != nil || score != 0 {
		t.Fatalf("empty input = %+v, %d; want nil, 0", best, score)
	}

	only := []Candidate{{Name: "Completely Different", PrimaryArtistName: "Someone Else", URI: "u1"}}
	best, score := SelectBest(only, track)
	if best == nil || best.URI != "u1" || score != 0 {
		t.Fatalf("single candidate = %+v, %d; want u1 unscored", best, score)
	}
}

func TestSelectBestTieKeepsEarlier(t *testing.T) {
	track := library.Track{Name: "Song", Artist: "Band"}
	candidates := []Candidate{
		{Name: "Song", PrimaryArtistName: "Band", URI: "first"},
		{Name: "Song", PrimaryArtistName: "Band", URI: "second"},
	}
	best, score := SelectBest(candidates, track)
	if best.URI != "first" || score != 20 {
		t.Fatalf("tie picked %s (%d), want first (20)", best.URI, score)
	}
}

func TestSelectBestAllZeroKeepsFirst(t *testing.T) {
	track := library.Track{Name: "Song", Artist: "Band"}
	candidates := []Candidate{
		{Name: "Other", PrimaryArtistName: "Nobody", URI: "first"},
		{Name: "Else", PrimaryArtistName: "Anyone", URI: "second"},
	}
	best, score := SelectBest(candidates, track)
	if best.URI != "first" || score != 0 {
		t.Fatalf("picked %s (%d), want first (0)", best.URI, score)
	}
}

func TestSelectBestDeterministic(t *testing.T) {
	track := library.Track{Name: "Yesterday", Artist: "The Beatles", Album: "Help!", DurationSeconds: 125}
	candidates := []Candidate{
		{Name: "Yesterday - Remastered", PrimaryArtistName: "The Beatles", AlbumName: "Help! (Remastered)", DurationMillis: 127000, URI: "a"},
		{Name: "Yesterday", PrimaryArtistName: "Beatles Tribute", AlbumName: "Covers", DurationMillis: 125000, URI: "b"},
		{Name: "Yesterday", PrimaryArtistName: "The Beatles", AlbumName: "1", DurationMillis: 131000, URI: "c"},
	}
	first, firstScore := SelectBest(candidates, track)
	for i := 0; i < 10; i++ {
		again, score := SelectBest(candidates, track)
		if again.URI != first.URI || score != firstScore {
			t.Fatalf("run %d picked %s (%d), want %s (%d)", i, again.URI, score, first.URI, firstScore)
		}
	}
	if first.URI != "c" || firstScore != 20 {
		t.Fatalf("picked %s (%d), want c (20)", first.URI, firstScore)
	}
}

func TestScoreRules(t *testing.T) {
	base := library.Track{Name: "Song", Artist: "Band"}
	tests := []struct {
		name      string
		track     library.Track
		candidate Candidate
		want      int
	}{
		{"exact name and artist", base, Candidate{Name: "SONG!", PrimaryArtistName: "band"}, 20},
		{"substring name", base, Candidate{Name: "Song (Live)", PrimaryArtistName: "Band"}, 15},
		{"reverse substring artist", library.Track{Name: "Song", Artist: "The Band"}, Candidate{Name: "Song", PrimaryArtistName: "Band"}, 15},
		{"album ignored when track has none", base, Candidate{Name: "Song", PrimaryArtistName: "Band", AlbumName: "Song"}, 20},
		{"album exact", library.Track{Name: "Song", Artist: "Band", Album: "LP"}, Candidate{Name: "Song", PrimaryArtistName: "Band", AlbumName: "lp"}, 23},
		{"album substring", library.Track{Name: "Song", Artist: "Band", Album: "LP"}, Candidate{Name: "Song", PrimaryArtistName: "Band", AlbumName: "LP Deluxe"}, 21},
		{"album mismatch", library.Track{Name: "Song", Artist: "Band", Album: "LP"}, Candidate{Name: "Song", PrimaryArtistName: "Band", AlbumName: "Other"}, 20},
		{"duration within 2s", library.Track{Name: "Song", Artist: "Band", DurationSeconds: 200}, Candidate{Name: "Song", PrimaryArtistName: "Band", DurationMillis: 202000}, 22},
		{"duration within 5s", library.Track{Name: "Song", Artist: "Band", DurationSeconds: 200}, Candidate{Name: "Song", PrimaryArtistName: "Band", DurationMillis: 195000}, 21},
		{"duration 2.4s off", library.Track{Name: "Song", Artist: "Band", DurationSeconds: 200}, Candidate{Name: "Song", PrimaryArtistName: "Band", DurationMillis: 202400}, 21},
		{"duration 5.4s off", library.Track{Name: "Song", Artist: "Band", DurationSeconds: 200}, Candidate{Name: "Song", PrimaryArtistName: "Band", DurationMillis: 205400}, 20},
		{"duration too far", library.Track{Name: "Song", Artist: "Band", DurationSeconds: 200}, Candidate{Name: "Song", PrimaryArtistName: "Band", DurationMillis: 206000}, 20},
		{"duration unknown locally", base, Candidate{Name: "Song", PrimaryArtistName: "Band", DurationMillis: 200000}, 20},
		{"punctuation-only name is a substring", library.Track{Name: "!!!", Artist: "Band"}, Candidate{Name: "Hello", PrimaryArtistName: "Band"}, 15},
		{"missing candidate album", library.Track{Name: "Song", Artist: "Band", Album: "LP"}, Candidate{Name: "Song", PrimaryArtistName: "Band"}, 21},
		{"nothing in common", base, Candidate{Name: "Other", PrimaryArtistName: "Group"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.candidate, tt.track); got != tt.want {
				t.Fatalf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}
