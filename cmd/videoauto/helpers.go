package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"videoauto/internal/config"
)

// resolveInputFile expands and validates a path argument that must name an
// existing regular file. kind names the argument in error messages.
func resolveInputFile(raw, kind string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%s path is required", kind)
	}
	path, err := config.ExpandPath(trimmed)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %q not found", kind, path)
		}
		return "", fmt.Errorf("stat %s: %w", kind, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s path %q is a directory", kind, path)
	}
	return path, nil
}

// withSuffix inserts suffix between the base name and the extension:
// withSuffix("movie.mp4", "_cut") yields "movie_cut.mp4".
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// replaceExt swaps the extension of path for ext, which must include the
// leading dot.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// defaultSubtitlePath locates the subtitle expected alongside a video file.
func defaultSubtitlePath(video string) string {
	return replaceExt(video, ".srt")
}

// resolveOutputPath returns the explicit output flag when set, expanded, or
// the fallback derived from the input path.
func resolveOutputPath(flag, fallback string) (string, error) {
	trimmed := strings.TrimSpace(flag)
	if trimmed == "" {
		return fallback, nil
	}
	return config.ExpandPath(trimmed)
}

// fileSize reports the on-disk size of path in human units, or "unknown"
// when the file cannot be inspected.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
