package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestVideoFrameRate(t *testing.T) {
	cases := []struct {
		name      string
		streams   []Stream
		wantRate  string
		wantValue float64
	}{
		{
			name:      "ntsc rational",
			streams:   []Stream{{CodecType: "video", RFrameRate: "30000/1001"}},
			wantRate:  "30000/1001",
			wantValue: 30000.0 / 1001.0,
		},
		{
			name:      "integer rational",
			streams:   []Stream{{CodecType: "video", RFrameRate: "60/1"}},
			wantRate:  "60/1",
			wantValue: 60,
		},
		{
			name:      "no video stream",
			streams:   []Stream{{CodecType: "audio"}},
			wantRate:  "",
			wantValue: 0,
		},
		{
			name:      "degenerate rate",
			streams:   []Stream{{CodecType: "video", RFrameRate: "0/0"}},
			wantRate:  "",
			wantValue: 0,
		},
		{
			name:      "skips audio before video",
			streams:   []Stream{{CodecType: "audio"}, {CodecType: "video", RFrameRate: "25/1"}},
			wantRate:  "25/1",
			wantValue: 25,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Result{Streams: tc.streams}
			if got := result.VideoFrameRate(); got != tc.wantRate {
				t.Fatalf("VideoFrameRate = %q, want %q", got, tc.wantRate)
			}
			if got := result.FrameRateValue(); math.Abs(got-tc.wantValue) > 1e-9 {
				t.Fatalf("FrameRateValue = %v, want %v", got, tc.wantValue)
			}
		})
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}
