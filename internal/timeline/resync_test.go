package timeline

import (
	"errors"
	"testing"
	"time"

	"videoauto/internal/subtitle"
)

func TestResyncScenario(t *testing.T) {
	cues := []subtitle.Cue{cue(0, 2), cue(2.3, 4), cue(10, 12)}
	synced, stats, err := Resync(cues, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Resync returned error: %v", err)
	}

	want := []subtitle.Cue{
		{Index: 1, Start: 0, End: sec(2)},
		{Index: 2, Start: sec(2.3), End: sec(4)},
		{Index: 3, Start: sec(4), End: sec(6)},
	}
	if len(synced) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(synced))
	}
	for i := range want {
		if synced[i].Start != want[i].Start || synced[i].End != want[i].End {
			t.Fatalf("cue %d = [%v, %v], want [%v, %v]",
				i, synced[i].Start, synced[i].End, want[i].Start, want[i].End)
		}
		if synced[i].Index != want[i].Index {
			t.Fatalf("cue %d index = %d, want %d", i, synced[i].Index, want[i].Index)
		}
	}

	if stats.OriginalEnd != sec(12) {
		t.Fatalf("OriginalEnd = %v", stats.OriginalEnd)
	}
	if stats.NewEnd != sec(6) {
		t.Fatalf("NewEnd = %v", stats.NewEnd)
	}
	if stats.Removed != sec(6) {
		t.Fatalf("Removed = %v", stats.Removed)
	}
}

func TestResyncFirstCueLandsAtZero(t *testing.T) {
	cases := [][]subtitle.Cue{
		{cue(3.2, 5), cue(5.1, 7)},
		{cue(0, 1)},
		{cue(100, 101), cue(200, 202), cue(202.2, 203)},
	}
	for _, cues := range cases {
		synced, _, err := Resync(cues, 500*time.Millisecond)
		if err != nil {
			t.Fatalf("Resync returned error: %v", err)
		}
		if synced[0].Start != 0 {
			t.Fatalf("first cue start = %v, want 0", synced[0].Start)
		}
		for i, c := range synced {
			if c.Start < 0 || c.End < 0 {
				t.Fatalf("cue %d has negative timing: %+v", i, c)
			}
			if c.End <= c.Start {
				t.Fatalf("cue %d inverted: %+v", i, c)
			}
		}
	}
}

func TestResyncPreservesRelativeTimeWithinSegment(t *testing.T) {
	// Cues 0.3s apart stay 0.3s apart after the shared shift.
	cues := []subtitle.Cue{cue(5, 7), cue(7.3, 9)}
	synced, _, err := Resync(cues, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Resync returned error: %v", err)
	}
	if synced[0].Start != 0 || synced[0].End != sec(2) {
		t.Fatalf("first cue misplaced: %+v", synced[0])
	}
	if synced[1].Start != sec(2.3) || synced[1].End != sec(4) {
		t.Fatalf("second cue misplaced: %+v", synced[1])
	}
}

func TestResyncTrimsText(t *testing.T) {
	cues := []subtitle.Cue{{Start: 0, End: sec(1), Text: "  padded text \n"}}
	synced, _, err := Resync(cues, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Resync returned error: %v", err)
	}
	if synced[0].Text != "padded text" {
		t.Fatalf("text not trimmed: %q", synced[0].Text)
	}
}

func TestResyncEmpty(t *testing.T) {
	synced, stats, err := Resync(nil, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Resync returned error: %v", err)
	}
	if synced != nil || stats != (ResyncStats{}) {
		t.Fatalf("expected empty result, got %v %+v", synced, stats)
	}
}

func TestResyncMergerConsistency(t *testing.T) {
	cases := []struct {
		name string
		cues []subtitle.Cue
	}{
		{"scenario", []subtitle.Cue{cue(0, 2), cue(2.3, 4), cue(10, 12)}},
		{"leading offset", []subtitle.Cue{cue(7.5, 9), cue(9.2, 10), cue(30, 31)}},
		{"dense", []subtitle.Cue{cue(0, 1), cue(1.1, 2), cue(2.2, 3), cue(3.3, 4)}},
		{"sparse", []subtitle.Cue{cue(1, 2), cue(10, 11), cue(20, 21), cue(30, 31)}},
		{"single", []subtitle.Cue{cue(42, 43)}},
		{"overlapping", []subtitle.Cue{cue(0, 5), cue(2, 3), cue(4.9, 8), cue(20, 22)}},
	}
	gap := 500 * time.Millisecond
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intervals, err := MergeCues(tc.cues, gap)
			if err != nil {
				t.Fatalf("MergeCues returned error: %v", err)
			}
			_, stats, err := Resync(tc.cues, gap)
			if err != nil {
				t.Fatalf("Resync returned error: %v", err)
			}
			if err := VerifyConsistency(intervals, stats); err != nil {
				t.Fatalf("consistency check failed: %v", err)
			}
		})
	}
}

func TestVerifyConsistencyDetectsMismatch(t *testing.T) {
	intervals := []Interval{{Start: 0, End: sec(4)}}
	stats := ResyncStats{OriginalEnd: sec(12), NewEnd: sec(4), Removed: sec(8)}
	// Merger dropped 12-4=8, matches.
	if err := VerifyConsistency(intervals, stats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats.Removed = sec(5)
	err := VerifyConsistency(intervals, stats)
	if err == nil {
		t.Fatal("expected inconsistency error")
	}
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}
}

func TestBuildShiftSchedule(t *testing.T) {
	cues := []subtitle.Cue{cue(1, 2), cue(2.2, 4), cue(10, 12), cue(20, 21)}
	schedule, err := BuildShiftSchedule(cues, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("BuildShiftSchedule returned error: %v", err)
	}

	breakpoints := schedule.Breakpoints()
	want := []Breakpoint{
		{At: sec(1), Shift: sec(1)},
		{At: sec(10), Shift: sec(7)},
		{At: sec(20), Shift: sec(15)},
	}
	if len(breakpoints) != len(want) {
		t.Fatalf("expected %d breakpoints, got %d: %v", len(want), len(breakpoints), breakpoints)
	}
	for i := range want {
		if breakpoints[i] != want[i] {
			t.Fatalf("breakpoint %d = %+v, want %+v", i, breakpoints[i], want[i])
		}
	}

	cases := []struct {
		at   time.Duration
		want time.Duration
	}{
		{0, sec(1)},
		{sec(1), sec(1)},
		{sec(5), sec(1)},
		{sec(10), sec(7)},
		{sec(15), sec(7)},
		{sec(20), sec(15)},
		{sec(99), sec(15)},
	}
	for _, tc := range cases {
		if got := schedule.ShiftAt(tc.at); got != tc.want {
			t.Fatalf("ShiftAt(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestShiftScheduleEmpty(t *testing.T) {
	var schedule ShiftSchedule
	if got := schedule.ShiftAt(sec(5)); got != 0 {
		t.Fatalf("empty schedule shift = %v, want 0", got)
	}
}
