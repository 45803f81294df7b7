package cutplan

import "fmt"

// Strategy selects the filter-graph construction approach.
type Strategy int

const (
	// StrategySelect filters frames in one pass and rebuilds timestamps.
	StrategySelect Strategy = iota
	// StrategyTrimConcat cuts per-interval clips and concatenates them.
	StrategyTrimConcat
)

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(value string) (Strategy, error) {
	switch value {
	case "select":
		return StrategySelect, nil
	case "trim":
		return StrategyTrimConcat, nil
	default:
		return 0, fmt.Errorf("unknown cut strategy %q (expected \"select\" or \"trim\")", value)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategySelect:
		return "select"
	case StrategyTrimConcat:
		return "trim"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// AudioCodec returns the output audio codec paired with the strategy. The
// select path keeps lossless flac so the loudness-normalized audio is not
// encoded lossily twice; the trim path uses aac for container compatibility.
func (s Strategy) AudioCodec() string {
	if s == StrategySelect {
		return "flac"
	}
	return "aac"
}

// ForcesOutputRate reports whether the encoder should pin the output frame
// rate. The select path resamples to a constant rate before filtering, so
// the output rate flag applies there.
func (s Strategy) ForcesOutputRate() bool {
	return s == StrategySelect
}
