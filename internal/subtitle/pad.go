package subtitle

import "time"

// Pad widens each cue boundary by pad on both sides to compensate for
// transcription timestamps that clip sentence edges. Expansion is clamped so
// cues never overlap and never start before zero: a start may not cross the
// (already padded) end of the previous cue, and an end may not cross the
// start of the next cue. The last cue's end is unconstrained. Cues are
// processed in slice order; the input is not modified.
func Pad(cues []Cue, pad time.Duration) []Cue {
	if len(cues) == 0 {
		return nil
	}
	padded := make([]Cue, len(cues))
	copy(padded, cues)

	for i := range padded {
		start := padded[i].Start - pad
		if start < 0 {
			start = 0
		}
		if i > 0 && start < padded[i-1].End {
			start = padded[i-1].End
		}

		end := padded[i].End + pad
		if i < len(cues)-1 && end > cues[i+1].Start {
			end = cues[i+1].Start
		}

		padded[i].Start = start
		padded[i].End = end
	}
	return padded
}
