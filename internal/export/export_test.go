package export

import (
	"testing"

	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/parser"
)

func TestContentJoinsRawLines(t *testing.T) {
	records := []model.Record{
		{RawLine: "2026-02-17 10:00:00 INFO one"},
		{RawLine: `{"level":"error","message":"two"}`},
		{RawLine: "three"},
	}
	want := "2026-02-17 10:00:00 INFO one\n" + `{"level":"error","message":"two"}` + "\nthree"
	if got := Content(records); got != want {
		t.Errorf("unexpected content:\n%q", got)
	}
}

func TestContentEmpty(t *testing.T) {
	if got := Content(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestContentRoundTrips(t *testing.T) {
	p := parser.New()
	original := "2026-02-17 10:00:00 INFO one\nplain middle line\nJan 15 10:31:04 host app[9]: tail"
	first := p.Parse(original, "app.log")

	again := p.Parse(Content(first.Records), "app.log")
	if len(again.Records) != len(first.Records) {
		t.Fatalf("expected %d records after round trip, got %d", len(first.Records), len(again.Records))
	}
	for i := range first.Records {
		if first.Records[i].Message != again.Records[i].Message {
			t.Errorf("record %d diverged: %q vs %q", i, first.Records[i].Message, again.Records[i].Message)
		}
	}
}

func TestFilenameTransform(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"app.log", "app.filtered.log"},
		{"/var/log/system.log", "system.filtered.log"},
		{"noext", "noext.filtered"},
		{"archive.2026.txt", "archive.2026.filtered.txt"},
		{"", "export.filtered.log"},
	}
	for _, c := range cases {
		if got := Filename(c.in); got != c.want {
			t.Errorf("Filename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
