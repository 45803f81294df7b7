package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"videoauto/internal/fileutil"
)

// timestampPattern matches "HH:MM:SS,mmm --> HH:MM:SS,mmm". A period is
// accepted in place of the comma and hours may exceed two digits.
var timestampPattern = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})`)

// Parse reads SRT cues from r. Parsing is tolerant of CRLF line endings, a
// UTF-8 byte order mark, extra blank lines between blocks, and blocks
// missing the numeric index line. A block whose timestamp line cannot be
// parsed is an error.
func Parse(r io.Reader) ([]Cue, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	var cues []Cue
	for _, block := range splitBlocks(content) {
		cue, ok, err := parseBlock(block)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

// ParseFile reads SRT cues from the file at path.
func ParseFile(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitles: %w", err)
	}
	defer file.Close()
	cues, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cues, nil
}

func splitBlocks(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		blocks = append(blocks, part)
	}
	return blocks
}

func parseBlock(block string) (Cue, bool, error) {
	lines := strings.Split(block, "\n")

	pos := 0
	for pos < len(lines) && strings.TrimSpace(lines[pos]) == "" {
		pos++
	}
	if pos >= len(lines) {
		return Cue{}, false, nil
	}

	var cue Cue
	if index, err := strconv.Atoi(strings.TrimSpace(lines[pos])); err == nil {
		cue.Index = index
		pos++
	}
	if pos >= len(lines) {
		return Cue{}, false, nil
	}

	timing := strings.TrimSpace(lines[pos])
	matches := timestampPattern.FindStringSubmatch(timing)
	if matches == nil {
		return Cue{}, false, fmt.Errorf("%w: malformed timestamp line %q", ErrInvalidCue, timing)
	}
	pos++

	start, err := timestampFromParts(matches[1:5])
	if err != nil {
		return Cue{}, false, fmt.Errorf("%w: %s", ErrInvalidCue, err)
	}
	end, err := timestampFromParts(matches[5:9])
	if err != nil {
		return Cue{}, false, fmt.Errorf("%w: %s", ErrInvalidCue, err)
	}
	cue.Start = start
	cue.End = end

	text := make([]string, 0, len(lines)-pos)
	for _, line := range lines[pos:] {
		text = append(text, strings.TrimRight(line, " \t"))
	}
	cue.Text = strings.TrimSpace(strings.Join(text, "\n"))
	return cue, true, nil
}

func timestampFromParts(parts []string) (time.Duration, error) {
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", parts[0], err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", parts[1], err)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("parse seconds %q: %w", parts[2], err)
	}
	// Fractional digits are milliseconds left-aligned: "5" means 500ms.
	frac := parts[3]
	for len(frac) < 3 {
		frac += "0"
	}
	millis, err := strconv.Atoi(frac)
	if err != nil {
		return 0, fmt.Errorf("parse milliseconds %q: %w", parts[3], err)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// FormatTimestamp renders a duration as an SRT timestamp "HH:MM:SS,mmm".
// Negative durations clamp to zero.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	millis := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// Compose renders cues as canonical SRT: sequential indices starting at 1,
// comma millisecond separators, LF line endings, and a trailing newline.
func Compose(cues []Cue) []byte {
	var buf bytes.Buffer
	for i, cue := range cues {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteByte('\n')
		buf.WriteString(FormatTimestamp(cue.Start))
		buf.WriteString(" --> ")
		buf.WriteString(FormatTimestamp(cue.End))
		buf.WriteByte('\n')
		if cue.Text != "" {
			buf.WriteString(cue.Text)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// WriteFile writes cues to path as canonical SRT. The write is atomic so an
// interrupted run never leaves a truncated subtitle file behind.
func WriteFile(path string, cues []Cue) error {
	if err := fileutil.WriteFileAtomic(path, Compose(cues), 0o644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	return nil
}
