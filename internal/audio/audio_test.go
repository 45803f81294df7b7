package audio

import (
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
)

func makeBuffer(rate, channels int, data ...int) Buffer {
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

func TestFramesFor(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		rate int
		want int
	}{
		{"exact", 100 * time.Millisecond, 24000, 2400},
		{"one second", time.Second, 44100, 44100},
		{"rounds down", time.Millisecond, 44100, 44},
		{"rounds half up", 35 * time.Millisecond, 44100, 1544},
		{"zero", 0, 24000, 0},
		{"negative", -time.Second, 24000, 0},
		{"zero rate", time.Second, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FramesFor(tc.d, tc.rate); got != tc.want {
				t.Fatalf("FramesFor(%v, %d) = %d, want %d", tc.d, tc.rate, got, tc.want)
			}
		})
	}
}

func TestNumFramesAndDuration(t *testing.T) {
	mono := makeBuffer(24000, 1, make([]int, 24000)...)
	if got := NumFrames(mono); got != 24000 {
		t.Fatalf("NumFrames = %d, want 24000", got)
	}
	if got := Duration(mono); got != time.Second {
		t.Fatalf("Duration = %v, want 1s", got)
	}

	stereo := makeBuffer(24000, 2, make([]int, 48000)...)
	if got := NumFrames(stereo); got != 24000 {
		t.Fatalf("stereo NumFrames = %d, want 24000", got)
	}
	if got := Duration(stereo); got != time.Second {
		t.Fatalf("stereo Duration = %v, want 1s", got)
	}

	if got := Duration(nil); got != 0 {
		t.Fatalf("nil Duration = %v, want 0", got)
	}
}

func TestSilence(t *testing.T) {
	buf := Silence(100*time.Millisecond, &Format{NumChannels: 1, SampleRate: 24000})
	if got := NumFrames(buf); got != 2400 {
		t.Fatalf("NumFrames = %d, want 2400", got)
	}
	if got := Duration(buf); got != 100*time.Millisecond {
		t.Fatalf("Duration = %v, want 100ms", got)
	}
	for i, v := range buf.Data {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0", i, v)
		}
	}

	stereo := Silence(time.Second, &Format{NumChannels: 2, SampleRate: 44100})
	if got := len(stereo.Data); got != 88200 {
		t.Fatalf("stereo sample count = %d, want 88200", got)
	}
}
