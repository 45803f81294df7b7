package subtitle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidCue marks cues whose timing cannot be used to derive a timeline.
var ErrInvalidCue = errors.New("invalid cue")

// Cue is a single subtitle entry. Index carries the position from the source
// file; the composer reassigns indices sequentially so it is informational.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Duration returns the cue's display duration.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Validate checks that the cue can participate in timeline derivation:
// the start must be non-negative and strictly before the end.
func (c Cue) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("%w: cue %d starts at %s", ErrInvalidCue, c.Index, c.Start)
	}
	if c.End <= c.Start {
		return fmt.Errorf("%w: cue %d ends at %s, not after start %s", ErrInvalidCue, c.Index, c.End, c.Start)
	}
	return nil
}

// SortCues orders cues by start time in place. The sort is stable so cues
// sharing a start time keep their input order.
func SortCues(cues []Cue) {
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})
}

// MaxEnd returns the latest end time across all cues, or zero for no cues.
func MaxEnd(cues []Cue) time.Duration {
	var max time.Duration
	for _, cue := range cues {
		if cue.End > max {
			max = cue.End
		}
	}
	return max
}

// TotalSpan returns the sum of all cue durations.
func TotalSpan(cues []Cue) time.Duration {
	var total time.Duration
	for _, cue := range cues {
		total += cue.Duration()
	}
	return total
}
