package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")

	src := makeBuffer(24000, 1, 0, 1000, -1000, 32767, -32768)
	if err := WriteWAV(path, src); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if got.Format.SampleRate != 24000 || got.Format.NumChannels != 1 {
		t.Fatalf("format = %+v", got.Format)
	}
	if len(got.Data) != len(src.Data) {
		t.Fatalf("sample count = %d, want %d", len(got.Data), len(src.Data))
	}
	for i, v := range src.Data {
		if got.Data[i] != v {
			t.Fatalf("sample %d = %d, want %d", i, got.Data[i], v)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("leftover temp file %q", entry.Name())
		}
	}
}

func TestWriteWAVCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips", "nested", "clip.wav")
	if err := WriteWAV(path, makeBuffer(24000, 1, 1, 2, 3)); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}

func TestWriteWAVRejectsInvalidBuffers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")

	if err := WriteWAV(path, nil); err == nil {
		t.Fatal("expected error for nil buffer")
	}
	bad := makeBuffer(0, 1, 1, 2)
	if err := WriteWAV(path, bad); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-wav.wav")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := ReadWAV(path); err == nil {
		t.Fatal("expected error for invalid wav data")
	}
}

func TestReadWAVMissingFile(t *testing.T) {
	if _, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
