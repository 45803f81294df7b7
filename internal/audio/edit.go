package audio

import (
	"fmt"
	"math"
	"time"

	goaudio "github.com/go-audio/audio"
)

// TrimSilence drops leading and trailing chunks whose peak amplitude falls
// below thresholdDB (dBFS, negative). The buffer is scanned in fixed-size
// chunks so brief zero crossings inside speech are not mistaken for
// silence. A fully silent buffer trims to zero frames.
func TrimSilence(buf Buffer, thresholdDB float64, chunk time.Duration) Buffer {
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return buf
	}
	frames := NumFrames(buf)
	chunkFrames := FramesFor(chunk, buf.Format.SampleRate)
	if chunkFrames <= 0 {
		chunkFrames = 1
	}
	limit := amplitudeFor(thresholdDB, bitDepth(buf))
	ch := buf.Format.NumChannels

	start := 0
	for start < frames {
		end := start + chunkFrames
		if end > frames {
			end = frames
		}
		if chunkPeak(buf.Data, start*ch, end*ch) >= limit {
			break
		}
		start = end
	}
	if start >= frames {
		return section(buf, 0, 0)
	}

	end := frames
	for end > start {
		begin := end - chunkFrames
		if begin < start {
			begin = start
		}
		if chunkPeak(buf.Data, begin*ch, end*ch) >= limit {
			break
		}
		end = begin
	}
	if start == 0 && end == frames {
		return buf
	}
	return section(buf, start, end)
}

// amplitudeFor converts a dBFS threshold to an absolute sample amplitude at
// the given bit depth.
func amplitudeFor(db float64, bits int) float64 {
	fullScale := float64(int(1) << (bits - 1))
	return fullScale * math.Pow(10, db/20)
}

func chunkPeak(data []int, start, end int) float64 {
	peak := 0.0
	for _, v := range data[start:end] {
		a := math.Abs(float64(v))
		if a > peak {
			peak = a
		}
	}
	return peak
}

// PadTo right-pads a buffer with silence so it spans at least d.
func PadTo(buf Buffer, d time.Duration) Buffer {
	if buf == nil || buf.Format == nil {
		return buf
	}
	target := FramesFor(d, buf.Format.SampleRate)
	frames := NumFrames(buf)
	if frames >= target {
		return buf
	}
	ch := buf.Format.NumChannels
	data := make([]int, target*ch)
	copy(data, buf.Data)
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: buf.Format.SampleRate},
		Data:           data,
		SourceBitDepth: buf.SourceBitDepth,
	}
}

// TruncateTo hard-cuts a buffer so it spans at most d.
func TruncateTo(buf Buffer, d time.Duration) Buffer {
	if buf == nil || buf.Format == nil {
		return buf
	}
	target := FramesFor(d, buf.Format.SampleRate)
	if NumFrames(buf) <= target {
		return buf
	}
	return section(buf, 0, target)
}

// Concat joins buffers in order. Every buffer must share the same sample
// rate and channel count.
func Concat(bufs ...Buffer) (Buffer, error) {
	var format *goaudio.Format
	depth := 0
	total := 0
	for _, buf := range bufs {
		if buf == nil || buf.Format == nil {
			continue
		}
		if format == nil {
			format = buf.Format
			depth = buf.SourceBitDepth
		} else if buf.Format.SampleRate != format.SampleRate || buf.Format.NumChannels != format.NumChannels {
			return nil, fmt.Errorf("format mismatch: %dHz/%dch joined to %dHz/%dch",
				buf.Format.SampleRate, buf.Format.NumChannels, format.SampleRate, format.NumChannels)
		}
		total += len(buf.Data)
	}
	if format == nil {
		return nil, fmt.Errorf("no buffers to join")
	}
	data := make([]int, 0, total)
	for _, buf := range bufs {
		if buf == nil || buf.Format == nil {
			continue
		}
		data = append(data, buf.Data...)
	}
	if depth == 0 {
		depth = defaultBitDepth
	}
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: format.NumChannels, SampleRate: format.SampleRate},
		Data:           data,
		SourceBitDepth: depth,
	}, nil
}
