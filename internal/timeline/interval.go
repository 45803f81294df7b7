package timeline

import (
	"fmt"
	"time"

	"videoauto/internal/subtitle"
)

// Interval is a kept span of the source timeline, in source time.
type Interval struct {
	Start time.Duration
	End   time.Duration
}

// Duration returns the interval's length.
func (iv Interval) Duration() time.Duration {
	return iv.End - iv.Start
}

// splitsSegment decides whether the gap between a cue and its predecessor
// ends the current kept interval. Merging uses the negation. MergeCues and
// BuildShiftSchedule must both call this function: the merge condition is
// strictly "gap < threshold", the split condition "gap >= threshold", and
// having one implementation keeps the video cut and the subtitle resync
// aligned by construction.
func splitsSegment(gap, threshold time.Duration) bool {
	return gap >= threshold
}

// MergeCues merges cues into kept intervals using the given gap threshold.
// Cues are sorted by start first; overlapping cues merge like small-gap
// cues. An empty cue list yields an empty result. Cues that fail validation
// abort with an error wrapping subtitle.ErrInvalidCue.
func MergeCues(cues []subtitle.Cue, gap time.Duration) ([]Interval, error) {
	if gap <= 0 {
		return nil, fmt.Errorf("merge gap must be positive, got %s", gap)
	}
	if len(cues) == 0 {
		return nil, nil
	}

	sorted := make([]subtitle.Cue, len(cues))
	copy(sorted, cues)
	subtitle.SortCues(sorted)

	for _, cue := range sorted {
		if err := cue.Validate(); err != nil {
			return nil, err
		}
	}

	intervals := make([]Interval, 0, len(sorted))
	current := Interval{Start: sorted[0].Start, End: sorted[0].End}
	for _, cue := range sorted[1:] {
		if splitsSegment(cue.Start-current.End, gap) {
			intervals = append(intervals, current)
			current = Interval{Start: cue.Start, End: cue.End}
			continue
		}
		if cue.End > current.End {
			current.End = cue.End
		}
	}
	intervals = append(intervals, current)
	return intervals, nil
}

// TotalKept returns the summed duration of all intervals, which is the
// duration of the cut output.
func TotalKept(intervals []Interval) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
