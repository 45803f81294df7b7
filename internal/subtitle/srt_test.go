package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseBasic(t *testing.T) {
	input := `1
00:00:00,000 --> 00:00:02,000
Hello there.

2
00:00:02,300 --> 00:00:04,000
Second line
continues here.

3
00:00:10,000 --> 00:00:12,000
Third.
`
	cues, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 2*time.Second {
		t.Fatalf("unexpected first cue timing: %v %v", cues[0].Start, cues[0].End)
	}
	if cues[1].Start != 2300*time.Millisecond {
		t.Fatalf("unexpected second cue start: %v", cues[1].Start)
	}
	if cues[1].Text != "Second line\ncontinues here." {
		t.Fatalf("unexpected multi-line text: %q", cues[1].Text)
	}
	if cues[2].Index != 3 {
		t.Fatalf("unexpected index: %d", cues[2].Index)
	}
}

func TestParseTolerance(t *testing.T) {
	cases := []struct {
		name  string
		input string
		count int
	}{
		{
			name:  "crlf line endings",
			input: "1\r\n00:00:00,000 --> 00:00:01,000\r\nHi.\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\nBye.\r\n",
			count: 2,
		},
		{
			name:  "byte order mark",
			input: "\ufeff1\n00:00:00,000 --> 00:00:01,000\nHi.\n",
			count: 1,
		},
		{
			name:  "period millisecond separator",
			input: "1\n00:00:00.500 --> 00:00:01.250\nHi.\n",
			count: 1,
		},
		{
			name:  "missing index line",
			input: "00:00:00,000 --> 00:00:01,000\nHi.\n",
			count: 1,
		},
		{
			name:  "extra blank lines between blocks",
			input: "1\n00:00:00,000 --> 00:00:01,000\nHi.\n\n\n\n2\n00:00:02,000 --> 00:00:03,000\nBye.\n",
			count: 2,
		},
		{
			name:  "empty input",
			input: "",
			count: 0,
		},
		{
			name:  "whitespace only",
			input: "\n\n   \n",
			count: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cues, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if len(cues) != tc.count {
				t.Fatalf("expected %d cues, got %d", tc.count, len(cues))
			}
		})
	}
}

func TestParsePeriodSeparatorValues(t *testing.T) {
	cues, err := Parse(strings.NewReader("1\n00:00:00.500 --> 00:00:01.250\nHi.\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cues[0].Start != 500*time.Millisecond || cues[0].End != 1250*time.Millisecond {
		t.Fatalf("unexpected timing: %v %v", cues[0].Start, cues[0].End)
	}
}

func TestParseMalformedTimestamp(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n00:00:00,000 -> 00:00:01,000\nHi.\n"))
	if err == nil {
		t.Fatal("expected error for malformed timestamp line")
	}
	if !errors.Is(err, ErrInvalidCue) {
		t.Fatalf("expected ErrInvalidCue, got %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{2300 * time.Millisecond, "00:00:02,300"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, "01:02:03,004"},
		{-time.Second, "00:00:00,000"},
		{100 * time.Hour, "100:00:00,000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.d); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestComposeCanonical(t *testing.T) {
	cues := []Cue{
		{Index: 7, Start: 0, End: 2 * time.Second, Text: "First."},
		{Index: 9, Start: 2300 * time.Millisecond, End: 4 * time.Second, Text: "Second\nwrapped."},
	}
	got := string(Compose(cues))
	want := "1\n00:00:00,000 --> 00:00:02,000\nFirst.\n\n2\n00:00:02,300 --> 00:00:04,000\nSecond\nwrapped.\n"
	if got != want {
		t.Fatalf("unexpected composition:\ngot  %q\nwant %q", got, want)
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	original := []Cue{
		{Start: 500 * time.Millisecond, End: 2 * time.Second, Text: "One."},
		{Start: 3 * time.Second, End: 4500 * time.Millisecond, Text: "Two\nlines."},
	}
	parsed, err := Parse(strings.NewReader(string(Compose(original))))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(parsed) != len(original) {
		t.Fatalf("round trip count mismatch: %d", len(parsed))
	}
	for i := range original {
		if parsed[i].Start != original[i].Start || parsed[i].End != original[i].End {
			t.Fatalf("cue %d timing mismatch: %v %v", i, parsed[i].Start, parsed[i].End)
		}
		if parsed[i].Text != original[i].Text {
			t.Fatalf("cue %d text mismatch: %q", i, parsed[i].Text)
		}
	}
}

func TestWriteFileAndParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.srt")
	cues := []Cue{{Start: 0, End: time.Second, Text: "Hi."}}

	if err := WriteFile(path, cues); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(got) != 1 || got[0].Text != "Hi." {
		t.Fatalf("unexpected cues: %+v", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the output file, found %d entries", len(entries))
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
