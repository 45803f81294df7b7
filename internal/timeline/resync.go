package timeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"videoauto/internal/subtitle"
)

// ErrInconsistent reports that the merger and the resynchronizer disagree
// about how much timeline was removed. The two are built on one shared
// predicate, so this indicates a programming error, not bad input.
var ErrInconsistent = errors.New("timeline inconsistency")

// Breakpoint records the cumulative left shift that applies to cues at or
// after At (in source time).
type Breakpoint struct {
	At    time.Duration
	Shift time.Duration
}

// ShiftSchedule maps source timestamps to the shift that moves them onto
// the compressed timeline.
type ShiftSchedule struct {
	breakpoints []Breakpoint
}

// BuildShiftSchedule computes the shift schedule for cues under the given
// gap threshold. The first breakpoint moves the first cue to time zero;
// every splitting gap afterwards adds its full width to the shift.
func BuildShiftSchedule(cues []subtitle.Cue, gap time.Duration) (ShiftSchedule, error) {
	if gap <= 0 {
		return ShiftSchedule{}, fmt.Errorf("merge gap must be positive, got %s", gap)
	}
	if len(cues) == 0 {
		return ShiftSchedule{}, nil
	}

	sorted := make([]subtitle.Cue, len(cues))
	copy(sorted, cues)
	subtitle.SortCues(sorted)

	for _, cue := range sorted {
		if err := cue.Validate(); err != nil {
			return ShiftSchedule{}, err
		}
	}

	breakpoints := make([]Breakpoint, 0, len(sorted))
	shift := sorted[0].Start
	breakpoints = append(breakpoints, Breakpoint{At: sorted[0].Start, Shift: shift})

	for i := 1; i < len(sorted); i++ {
		cueGap := sorted[i].Start - sorted[i-1].End
		if splitsSegment(cueGap, gap) {
			shift += cueGap
			breakpoints = append(breakpoints, Breakpoint{At: sorted[i].Start, Shift: shift})
		}
	}
	return ShiftSchedule{breakpoints: breakpoints}, nil
}

// ShiftAt returns the shift in effect at source time t: the shift of the
// last breakpoint at or before t. Times before the first breakpoint use the
// first breakpoint's shift so they cannot produce negative output.
func (s ShiftSchedule) ShiftAt(t time.Duration) time.Duration {
	if len(s.breakpoints) == 0 {
		return 0
	}
	idx := sort.Search(len(s.breakpoints), func(i int) bool {
		return s.breakpoints[i].At > t
	})
	if idx == 0 {
		return s.breakpoints[0].Shift
	}
	return s.breakpoints[idx-1].Shift
}

// Breakpoints returns a copy of the schedule's breakpoints in order.
func (s ShiftSchedule) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(s.breakpoints))
	copy(out, s.breakpoints)
	return out
}

// ResyncStats summarizes a resync run.
type ResyncStats struct {
	// OriginalEnd is the latest cue end before resync.
	OriginalEnd time.Duration
	// NewEnd is the latest cue end after resync.
	NewEnd time.Duration
	// Removed is the total timeline duration dropped by the shift.
	Removed time.Duration
}

// Resync rewrites cue timestamps onto the compressed timeline produced by
// cutting with the same gap threshold. Cue order and count are preserved;
// a cue's start and end move together by the shift in effect at its start,
// and text is passed through with surrounding whitespace trimmed. The first
// cue lands at zero and no cue becomes negative.
func Resync(cues []subtitle.Cue, gap time.Duration) ([]subtitle.Cue, ResyncStats, error) {
	schedule, err := BuildShiftSchedule(cues, gap)
	if err != nil {
		return nil, ResyncStats{}, err
	}
	if len(cues) == 0 {
		return nil, ResyncStats{}, nil
	}

	sorted := make([]subtitle.Cue, len(cues))
	copy(sorted, cues)
	subtitle.SortCues(sorted)

	stats := ResyncStats{OriginalEnd: subtitle.MaxEnd(sorted)}

	synced := make([]subtitle.Cue, len(sorted))
	for i, cue := range sorted {
		shift := schedule.ShiftAt(cue.Start)
		synced[i] = subtitle.Cue{
			Index: i + 1,
			Start: cue.Start - shift,
			End:   cue.End - shift,
			Text:  strings.TrimSpace(cue.Text),
		}
	}

	stats.NewEnd = subtitle.MaxEnd(synced)
	stats.Removed = stats.OriginalEnd - stats.NewEnd
	return synced, stats, nil
}

// VerifyConsistency cross-checks the duration removed by Resync against the
// duration removed by MergeCues for the same input. The two derive from one
// predicate and must agree; a mismatch beyond one millisecond returns
// ErrInconsistent.
func VerifyConsistency(intervals []Interval, stats ResyncStats) error {
	droppedByMerge := stats.OriginalEnd - TotalKept(intervals)
	diff := droppedByMerge - stats.Removed
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Millisecond {
		return fmt.Errorf("%w: merger dropped %s, resync dropped %s", ErrInconsistent, droppedByMerge, stats.Removed)
	}
	return nil
}
