package plist

import (
	"errors"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Major Version</key><integer>1</integer>
	<key>Date</key><date>2024-03-01T10:00:00Z</date>
	<key>Show Content Ratings</key><true/>
	<key>Rate</key><real>1.5</real>
	<key>Artwork</key><data>AAAA</data>
	<key>Tracks</key>
	<dict>
		<key>101</key>
		<dict>
			<key>Name</key><string>Rock &#38; Roll</string>
		</dict>
	</dict>
	<key>Playlists</key>
	<array>
		<dict><key>Name</key><string>Mix</string></dict>
	</array>
</dict>
</plist>`

func TestParseBuckets(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !root.IsDict() {
		t.Fatalf("root kind = %v, want dict", root.Kind)
	}
	wantKeys := []string{"Major Version", "Date", "Show Content Ratings", "Rate", "Artwork", "Tracks", "Playlists"}
	if strings.Join(root.Keys, "|") != strings.Join(wantKeys, "|") {
		t.Fatalf("keys = %v, want %v", root.Keys, wantKeys)
	}
	if len(root.Integers) != 1 || root.Integers[0] != 1 {
		t.Fatalf("integers = %v", root.Integers)
	}
	if len(root.Dates) != 1 || root.Dates[0] != "2024-03-01T10:00:00Z" {
		t.Fatalf("dates = %v", root.Dates)
	}
	if root.Trues != 1 || root.Falses != 0 {
		t.Fatalf("trues/falses = %d/%d", root.Trues, root.Falses)
	}
	if len(root.Strings) != 0 {
		t.Fatalf("real/data must not land in strings: %v", root.Strings)
	}
	if len(root.Children) != 2 || !root.Children[0].IsDict() || !root.Children[1].IsArray() {
		t.Fatalf("unexpected children: %+v", root.Children)
	}
	tracks := root.FirstChild(KindDict)
	if tracks == nil || len(tracks.Children) != 1 {
		t.Fatalf("tracks dict missing nested track")
	}
	if got := tracks.Children[0].Strings[0]; got != "Rock & Roll" {
		t.Fatalf("track name = %q", got)
	}
	if !root.HasKey("Playlists") || root.HasKey("Missing") {
		t.Fatal("HasKey mismatch")
	}
}

func TestParseMissingTopLevelDict(t *testing.T) {
	docs := []string{
		`<plist version="1.0"><array><string>x</string></array></plist>`,
		`<plist version="1.0"></plist>`,
	}
	for _, doc := range docs {
		if _, err := Parse(strings.NewReader(doc)); !errors.Is(err, ErrStructural) {
			t.Fatalf("Parse(%q) error = %v, want ErrStructural", doc, err)
		}
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse(strings.NewReader(`<plist><dict><key>a</key>`))
	if err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestParseDepthLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<plist>")
	for i := 0; i < MaxDepth+1; i++ {
		b.WriteString("<dict><key>k</key>")
	}
	for i := 0; i < MaxDepth+1; i++ {
		b.WriteString("</dict>")
	}
	b.WriteString("</plist>")

	if _, err := Parse(strings.NewReader(b.String())); !errors.Is(err, ErrStructural) {
		t.Fatalf("error = %v, want ErrStructural", err)
	}
}

func TestUnescape(t *testing.T) {
	got := Unescape("a &#38; b &#39;c&#39; &quot;d&quot; &lt;e&gt;")
	if got != `a & b 'c' "d" <e>` {
		t.Fatalf("Unescape = %q", got)
	}
	if Unescape("plain") != "plain" {
		t.Fatal("plain text changed")
	}
}
