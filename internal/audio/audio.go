// Package audio provides PCM buffer operations for the dub pipeline:
// WAV decode/encode, silence generation, silence trimming, and frame-exact
// padding, truncation, and concatenation. All duration math converts through
// a single frame-count function so assembled tracks land within one sample
// of their targets.
package audio

import (
	"time"

	goaudio "github.com/go-audio/audio"
)

// Buffer aliases the go-audio PCM buffer used throughout the dub pipeline.
type Buffer = *goaudio.IntBuffer

// Format aliases the go-audio PCM format descriptor.
type Format = goaudio.Format

const defaultBitDepth = 16

// FramesFor converts a duration to a frame count at the given sample rate,
// rounding to the nearest frame. Negative durations yield zero.
func FramesFor(d time.Duration, sampleRate int) int {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	return int((d*time.Duration(sampleRate) + time.Second/2) / time.Second)
}

// NumFrames reports the per-channel sample count of a buffer.
func NumFrames(buf Buffer) int {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return 0
	}
	return len(buf.Data) / buf.Format.NumChannels
}

// Duration reports the playback time of a buffer.
func Duration(buf Buffer) time.Duration {
	if buf == nil || buf.Format == nil || buf.Format.SampleRate <= 0 {
		return 0
	}
	frames := NumFrames(buf)
	return time.Duration(frames) * time.Second / time.Duration(buf.Format.SampleRate)
}

// Silence returns a zero-filled buffer spanning d at the given format.
func Silence(d time.Duration, format *Format) Buffer {
	frames := FramesFor(d, format.SampleRate)
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: format.NumChannels, SampleRate: format.SampleRate},
		Data:           make([]int, frames*format.NumChannels),
		SourceBitDepth: defaultBitDepth,
	}
}

func bitDepth(buf Buffer) int {
	if buf != nil && buf.SourceBitDepth > 0 {
		return buf.SourceBitDepth
	}
	return defaultBitDepth
}

// section copies the frame range [start, end) into a fresh buffer.
func section(buf Buffer, start, end int) Buffer {
	ch := buf.Format.NumChannels
	data := make([]int, (end-start)*ch)
	copy(data, buf.Data[start*ch:end*ch])
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: buf.Format.SampleRate},
		Data:           data,
		SourceBitDepth: buf.SourceBitDepth,
	}
}
