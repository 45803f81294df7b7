package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWithSuffix(t *testing.T) {
	cases := []struct {
		path   string
		suffix string
		want   string
	}{
		{"movie.mp4", "_cut", "movie_cut.mp4"},
		{"/tmp/movie.mkv", "_cut", "/tmp/movie_cut.mkv"},
		{"talk.srt", "_pad", "talk_pad.srt"},
		{"noext", "_cut", "noext_cut"},
		{"dir.v2/clip.mp4", "_cut", "dir.v2/clip_cut.mp4"},
	}
	for _, tc := range cases {
		if got := withSuffix(tc.path, tc.suffix); got != tc.want {
			t.Fatalf("withSuffix(%q, %q) = %q, want %q", tc.path, tc.suffix, got, tc.want)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	cases := []struct {
		path string
		ext  string
		want string
	}{
		{"movie.mp4", ".srt", "movie.srt"},
		{"movie.mp4", ".wav", "movie.wav"},
		{"noext", ".srt", "noext.srt"},
		{"/a/b/talk.zh.srt", ".wav", "/a/b/talk.zh.wav"},
	}
	for _, tc := range cases {
		if got := replaceExt(tc.path, tc.ext); got != tc.want {
			t.Fatalf("replaceExt(%q, %q) = %q, want %q", tc.path, tc.ext, got, tc.want)
		}
	}
}

func TestDefaultSubtitlePath(t *testing.T) {
	if got := defaultSubtitlePath("/videos/lecture.mp4"); got != "/videos/lecture.srt" {
		t.Fatalf("defaultSubtitlePath = %q", got)
	}
}

func TestResolveOutputPath(t *testing.T) {
	got, err := resolveOutputPath("", "/fallback/out.srt")
	if err != nil {
		t.Fatalf("resolveOutputPath: %v", err)
	}
	if got != "/fallback/out.srt" {
		t.Fatalf("blank flag should use the fallback, got %q", got)
	}

	got, err = resolveOutputPath("custom.srt", "/fallback/out.srt")
	if err != nil {
		t.Fatalf("resolveOutputPath: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if got != filepath.Join(wd, "custom.srt") {
		t.Fatalf("explicit flag should expand relative paths, got %q", got)
	}
}

func TestResolveInputFileRejectsDirectories(t *testing.T) {
	dir := t.TempDir()
	if _, err := resolveInputFile(dir, "subtitle file"); err == nil {
		t.Fatalf("expected directory rejection")
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "five.bin")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := fileSize(path); got != "5 B" {
		t.Fatalf("fileSize = %q, want %q", got, "5 B")
	}
	if got := fileSize(filepath.Join(dir, "absent")); got != "unknown" {
		t.Fatalf("fileSize for missing file = %q", got)
	}
}
