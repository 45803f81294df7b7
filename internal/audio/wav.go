package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// ReadWAV decodes an entire WAV file into memory.
func ReadWAV(path string) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm from %s: %w", path, err)
	}
	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(decoder.BitDepth)
	}
	return buf, nil
}

// WriteWAV encodes a buffer to path. The file is staged beside the target
// and renamed into place so readers never observe a partial write.
func WriteWAV(path string, buf Buffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("buffer is empty")
	}
	if buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return fmt.Errorf("buffer format is invalid: rate=%d channels=%d", buf.Format.SampleRate, buf.Format.NumChannels)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		_ = os.Remove(tmpPath)
	}

	encoder := wav.NewEncoder(tmp, buf.Format.SampleRate, bitDepth(buf), buf.Format.NumChannels, 1)
	if err := encoder.Write(buf); err != nil {
		cleanup()
		return fmt.Errorf("write pcm: %w", err)
	}
	if err := encoder.Close(); err != nil {
		cleanup()
		return fmt.Errorf("finalize wav: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp wav: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move wav into place: %w", err)
	}
	return nil
}
