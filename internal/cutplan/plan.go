package cutplan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"videoauto/internal/timeline"
)

// Output stream labels shared by both strategies.
const (
	VideoLabel = "outv"
	AudioLabel = "outa"
)

// LoudnormParams parameterizes ffmpeg's loudnorm filter.
type LoudnormParams struct {
	I   float64
	TP  float64
	LRA float64
}

func (p LoudnormParams) filter() string {
	return "loudnorm=I=" + formatFloat(p.I) +
		":TP=" + formatFloat(p.TP) +
		":LRA=" + formatFloat(p.LRA)
}

// Options carries the parameters both builders need. FrameRate is the
// source video's rational frame rate (for example "30000/1001") and is only
// required by the select strategy, which resamples to it before filtering.
type Options struct {
	FrameRate   string
	SampleRate  int
	Loudnorm    LoudnormParams
	PixelFormat string
}

func (o Options) validate(strategy Strategy) error {
	if strategy == StrategySelect && strings.TrimSpace(o.FrameRate) == "" {
		return errors.New("select strategy requires the source frame rate")
	}
	if o.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", o.SampleRate)
	}
	if strings.TrimSpace(o.PixelFormat) == "" {
		return errors.New("pixel format must be set")
	}
	return nil
}

// Plan is a complete filter graph plus the interval set it encodes.
type Plan struct {
	Strategy    Strategy
	FilterGraph string
	VideoLabel  string
	AudioLabel  string
	Intervals   []timeline.Interval
}

// TotalKept returns the output duration the plan represents.
func (p Plan) TotalKept() time.Duration {
	return timeline.TotalKept(p.Intervals)
}

// Build constructs the filter graph for the given strategy over intervals
// computed by timeline.MergeCues. At least one interval is required.
func Build(strategy Strategy, intervals []timeline.Interval, opts Options) (Plan, error) {
	if len(intervals) == 0 {
		return Plan{}, errors.New("no kept intervals to cut")
	}
	if err := opts.validate(strategy); err != nil {
		return Plan{}, err
	}

	var graph string
	switch strategy {
	case StrategySelect:
		graph = buildSelectGraph(intervals, opts)
	case StrategyTrimConcat:
		graph = buildTrimConcatGraph(intervals, opts)
	default:
		return Plan{}, fmt.Errorf("unknown cut strategy %q", strategy)
	}

	kept := make([]timeline.Interval, len(intervals))
	copy(kept, intervals)
	return Plan{
		Strategy:    strategy,
		FilterGraph: graph,
		VideoLabel:  VideoLabel,
		AudioLabel:  AudioLabel,
		Intervals:   kept,
	}, nil
}

// buildSelectGraph keeps frames whose timestamps fall inside any interval,
// then rebuilds presentation timestamps from the surviving frame and sample
// counts. The fps resample runs before select so variable-rate sources are
// filtered on a constant clock; loudness normalization runs after the
// timestamp rebuild and is followed by the output-rate resample so loudnorm
// cannot upsample the result.
func buildSelectGraph(intervals []timeline.Interval, opts Options) string {
	expr := selectExpression(intervals)
	var b strings.Builder
	b.WriteString("[0:v]fps=")
	b.WriteString(opts.FrameRate)
	b.WriteString(",select='")
	b.WriteString(expr)
	b.WriteString("',setpts=N/FRAME_RATE/TB,format=")
	b.WriteString(opts.PixelFormat)
	b.WriteString("[")
	b.WriteString(VideoLabel)
	b.WriteString("];[0:a]aselect='")
	b.WriteString(expr)
	b.WriteString("',asetpts=N/SR/TB,")
	b.WriteString(opts.Loudnorm.filter())
	b.WriteString(",aresample=")
	b.WriteString(strconv.Itoa(opts.SampleRate))
	b.WriteString("[")
	b.WriteString(AudioLabel)
	b.WriteString("]")
	return b.String()
}

// buildTrimConcatGraph cuts one video and one audio clip per interval, each
// with timestamps reset to zero, and concatenates the clips. Video and
// audio clips share identical boundaries so their durations match. The
// audio chain resamples before loudness normalization here because the
// normalized signal is final once the clips are joined.
func buildTrimConcatGraph(intervals []timeline.Interval, opts Options) string {
	parts := make([]string, 0, 2*len(intervals)+2)
	for i, iv := range intervals {
		start := formatSeconds(iv.Start)
		end := formatSeconds(iv.End)
		parts = append(parts, fmt.Sprintf("[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d]", start, end, i))
		parts = append(parts, fmt.Sprintf("[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d]", start, end, i))
	}

	var video strings.Builder
	var audio strings.Builder
	for i := range intervals {
		fmt.Fprintf(&video, "[v%d]", i)
		fmt.Fprintf(&audio, "[a%d]", i)
	}
	fmt.Fprintf(&video, "concat=n=%d:v=1:a=0,format=%s[%s]", len(intervals), opts.PixelFormat, VideoLabel)
	fmt.Fprintf(&audio, "concat=n=%d:v=0:a=1,aresample=%d,%s[%s]",
		len(intervals), opts.SampleRate, opts.Loudnorm.filter(), AudioLabel)
	parts = append(parts, video.String(), audio.String())

	return strings.Join(parts, ";")
}

// selectExpression renders the frame-selection predicate: a sum of
// between(t,start,end) terms, one per interval, true whenever the frame
// timestamp falls inside any kept interval.
func selectExpression(intervals []timeline.Interval) string {
	terms := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		terms = append(terms, fmt.Sprintf("between(t,%s,%s)", formatSeconds(iv.Start), formatSeconds(iv.End)))
	}
	return strings.Join(terms, "+")
}

// formatSeconds renders a boundary in seconds with the shortest exact
// decimal form, so both strategies emit identical values for identical
// intervals.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
