package dub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"videoauto/internal/audio"
	"videoauto/internal/logging"
	"videoauto/internal/services"
	"videoauto/internal/services/edgetts"
	"videoauto/internal/subtitle"
	"videoauto/internal/voicecache"
)

const (
	// DefaultSampleRate matches the 24 kHz mono output of edge-tts voices.
	// Subtitle timestamps carry millisecond precision, and one millisecond
	// is exactly 24 frames at this rate, so assembled tracks never drift.
	DefaultSampleRate = 24000

	// DefaultSilenceThreshold is the dBFS level below which clip edges are
	// treated as silence before tempo compression.
	DefaultSilenceThreshold = -40.0

	// silenceChunk is the scan window for edge trimming. Windows this short
	// keep word onsets while still catching synthesis lead-in.
	silenceChunk = 10 * time.Millisecond

	snippetRunes = 24
)

// Options tune a dub run. Zero values fall back to the edge-tts defaults
// and a single worker.
type Options struct {
	Voice            string
	Rate             string
	Volume           string
	Workers          int
	SampleRate       int
	SilenceThreshold float64
	WorkDir          string
}

// Deps bundles the collaborators a Synthesizer drives. Cache may be nil to
// disable clip reuse, and Logger may be nil to silence the run.
type Deps struct {
	TTS       edgetts.Client
	Decoder   *Decoder
	Stretcher *Stretcher
	Cache     *voicecache.Cache
	Logger    *slog.Logger
}

// Report summarizes what a dub run did to each cue.
type Report struct {
	Cues          int
	Synthesized   int
	CacheHits     int
	Stretched     int
	Padded        int
	TotalDuration time.Duration
}

// Synthesizer renders subtitle cues into a single duration-matched track.
type Synthesizer struct {
	tts       edgetts.Client
	decoder   *Decoder
	stretcher *Stretcher
	cache     *voicecache.Cache
	logger    *slog.Logger
	opts      Options
	progress  func(done, total int)
}

type cueStats struct {
	synthesized bool
	cacheHit    bool
	stretched   bool
	padded      bool
}

// New validates the collaborators and normalizes the options.
func New(deps Deps, opts Options) (*Synthesizer, error) {
	if deps.TTS == nil {
		return nil, fmt.Errorf("tts client is required")
	}
	if deps.Decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if deps.Stretcher == nil {
		return nil, fmt.Errorf("stretcher is required")
	}
	if strings.TrimSpace(opts.Voice) == "" {
		opts.Voice = edgetts.DefaultVoice
	}
	if strings.TrimSpace(opts.Rate) == "" {
		opts.Rate = edgetts.DefaultRate
	}
	if strings.TrimSpace(opts.Volume) == "" {
		opts.Volume = edgetts.DefaultVolume
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.SilenceThreshold >= 0 {
		opts.SilenceThreshold = DefaultSilenceThreshold
	}
	return &Synthesizer{
		tts:       deps.TTS,
		decoder:   deps.Decoder,
		stretcher: deps.Stretcher,
		cache:     deps.Cache,
		logger:    logging.NewComponentLogger(deps.Logger, "dub"),
		opts:      opts,
	}, nil
}

// SetProgress registers a callback invoked after each cue completes. It must
// be set before DubCues runs.
func (s *Synthesizer) SetProgress(fn func(done, total int)) {
	s.progress = fn
}

// DubCues renders every cue and assembles the full track: silence for the
// gap before each cue, then the cue's duration-matched clip. The result
// spans from zero to the last cue's end. Cue rendering is spread across the
// configured workers; the first failure cancels the remaining work.
func (s *Synthesizer) DubCues(ctx context.Context, cues []subtitle.Cue) (audio.Buffer, Report, error) {
	report := Report{Cues: len(cues)}
	if len(cues) == 0 {
		return nil, report, services.Wrap(services.ErrInvalidInput, "dub", "validate cues",
			"subtitle file contains no cues", nil)
	}
	sorted := make([]subtitle.Cue, len(cues))
	copy(sorted, cues)
	subtitle.SortCues(sorted)
	for _, cue := range sorted {
		if err := cue.Validate(); err != nil {
			return nil, report, services.Wrap(services.ErrInvalidInput, "dub", "validate cues", "", err)
		}
	}

	workDir, err := s.stagingDir()
	if err != nil {
		return nil, report, err
	}
	defer os.RemoveAll(workDir)

	s.logger.Debug("starting dub run",
		logging.Int("cues", len(sorted)),
		logging.Int("workers", s.opts.Workers),
		logging.String(logging.FieldVoice, s.opts.Voice),
		logging.Float64("silence_threshold_db", s.opts.SilenceThreshold))

	clips := make([]audio.Buffer, len(sorted))
	stats := make([]cueStats, len(sorted))
	if err := s.renderAll(ctx, sorted, workDir, clips, stats); err != nil {
		return nil, report, err
	}

	track, err := s.assemble(sorted, clips)
	if err != nil {
		return nil, report, services.Wrap(nil, "dub", "assemble track", "", err)
	}

	for _, st := range stats {
		if st.synthesized {
			report.Synthesized++
		}
		if st.cacheHit {
			report.CacheHits++
		}
		if st.stretched {
			report.Stretched++
		}
		if st.padded {
			report.Padded++
		}
	}
	report.TotalDuration = audio.Duration(track)
	s.logger.Info("dub track assembled",
		logging.Int("cues", report.Cues),
		logging.Int("synthesized", report.Synthesized),
		logging.Int("cache_hits", report.CacheHits),
		logging.Int("stretched", report.Stretched),
		logging.Int("padded", report.Padded),
		logging.String(logging.FieldVoice, s.opts.Voice),
		logging.Duration(logging.FieldDuration, report.TotalDuration))
	return track, report, nil
}

// renderAll fans cues out to the worker pool. Results land in clips by cue
// position so assembly order never depends on completion order.
func (s *Synthesizer) renderAll(ctx context.Context, cues []subtitle.Cue, workDir string, clips []audio.Buffer, stats []cueStats) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.opts.Workers
	if workers > len(cues) {
		workers = len(cues)
	}

	type job struct {
		slot int
		cue  subtitle.Cue
	}
	jobs := make(chan job)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				clip, st, err := s.renderCue(runCtx, j.slot, j.cue, workDir)
				if err != nil {
					mu.Lock()
					if firstErr == nil && !errors.Is(err, context.Canceled) {
						firstErr = err
						cancel()
					}
					mu.Unlock()
					continue
				}
				mu.Lock()
				clips[j.slot] = clip
				stats[j.slot] = st
				done++
				completed := done
				mu.Unlock()
				s.logger.Debug("cue rendered",
					logging.Int(logging.FieldCueIndex, j.cue.Index),
					logging.Duration(logging.FieldDuration, j.cue.Duration()),
					logging.Bool("cache_hit", st.cacheHit),
					logging.Bool("stretched", st.stretched))
				if s.progress != nil {
					s.progress(completed, len(cues))
				}
			}
		}()
	}

feed:
	for i, cue := range cues {
		select {
		case jobs <- job{slot: i, cue: cue}:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// renderCue produces the exact-duration clip for one cue. Cues with no
// speakable text become pure silence without touching the synthesizer.
func (s *Synthesizer) renderCue(ctx context.Context, slot int, cue subtitle.Cue, workDir string) (audio.Buffer, cueStats, error) {
	var st cueStats
	target := cue.Duration()
	text := normalizeText(cue.Text)
	if text == "" {
		return audio.Silence(target, s.format()), st, nil
	}

	raw, hit, err := s.obtainClip(ctx, slot, text, workDir)
	if err != nil {
		return nil, st, s.cueError(cue, target, err)
	}
	st.cacheHit = hit
	st.synthesized = !hit

	targetFrames := audio.FramesFor(target, s.opts.SampleRate)
	switch frames := audio.NumFrames(raw); {
	case frames > targetFrames:
		fitted, stretched, err := s.compress(ctx, slot, raw, target, workDir)
		if err != nil {
			return nil, st, s.cueError(cue, target, err)
		}
		st.stretched = stretched
		return fitted, st, nil
	case frames < targetFrames:
		st.padded = true
		return audio.PadTo(raw, target), st, nil
	default:
		return raw, st, nil
	}
}

// obtainClip returns the raw rendered speech for text, either from the
// cache or freshly synthesized. Fresh clips are decoded to the run's sample
// rate and stored back into the cache before the staging files are removed.
func (s *Synthesizer) obtainClip(ctx context.Context, slot int, text, workDir string) (audio.Buffer, bool, error) {
	key := voicecache.Key(s.opts.Voice, s.opts.Rate, s.opts.Volume, text)
	if clip, ok := s.cachedClip(ctx, key); ok {
		return clip, true, nil
	}

	media := filepath.Join(workDir, fmt.Sprintf("cue-%04d.mp3", slot))
	wavPath := filepath.Join(workDir, fmt.Sprintf("cue-%04d.wav", slot))
	if _, err := s.tts.Synthesize(ctx, edgetts.Request{
		Text:       text,
		Voice:      s.opts.Voice,
		Rate:       s.opts.Rate,
		Volume:     s.opts.Volume,
		OutputPath: media,
	}); err != nil {
		return nil, false, err
	}
	defer os.Remove(media)

	if err := s.decoder.DecodeToWAV(ctx, media, wavPath, s.opts.SampleRate); err != nil {
		return nil, false, err
	}
	defer os.Remove(wavPath)

	clip, err := audio.ReadWAV(wavPath)
	if err != nil {
		return nil, false, fmt.Errorf("read synthesized clip: %w", err)
	}
	s.storeClip(ctx, key, text, wavPath, clip)
	return clip, false, nil
}

// cachedClip loads a cache hit, rejecting clips whose format no longer
// matches the run. Cache trouble degrades to a miss rather than failing the
// cue.
func (s *Synthesizer) cachedClip(ctx context.Context, key string) (audio.Buffer, bool) {
	entry, ok, err := s.cache.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn("voice cache lookup failed", logging.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	clip, err := audio.ReadWAV(entry.Path)
	if err != nil {
		s.logger.Warn("cached clip unreadable, resynthesizing",
			logging.String(logging.FieldPath, entry.Path), logging.Error(err))
		return nil, false
	}
	if clip.Format == nil || clip.Format.SampleRate != s.opts.SampleRate || clip.Format.NumChannels != 1 {
		return nil, false
	}
	return clip, true
}

func (s *Synthesizer) storeClip(ctx context.Context, key, text, wavPath string, clip audio.Buffer) {
	entry := voicecache.Entry{
		Key:      key,
		Voice:    s.opts.Voice,
		Rate:     s.opts.Rate,
		Volume:   s.opts.Volume,
		TextHash: voicecache.TextHash(text),
		Duration: audio.Duration(clip),
	}
	if err := s.cache.Store(ctx, entry, wavPath); err != nil {
		s.logger.Warn("voice cache store failed", logging.Error(err))
	}
}

// compress trims silence from the clip edges and squeezes the remainder
// onto the target span with atempo. The ratio comes from the trimmed
// length, so a clip that is mostly silence may end up slowed down to fill
// its slot. A clip that trims to nothing becomes silence.
func (s *Synthesizer) compress(ctx context.Context, slot int, raw audio.Buffer, target time.Duration, workDir string) (audio.Buffer, bool, error) {
	trimmed := audio.TrimSilence(raw, s.opts.SilenceThreshold, silenceChunk)
	if audio.NumFrames(trimmed) == 0 {
		return audio.Silence(target, s.format()), false, nil
	}

	ratio := audio.Duration(trimmed).Seconds() / target.Seconds()
	src := filepath.Join(workDir, fmt.Sprintf("fit-src-%04d.wav", slot))
	dest := filepath.Join(workDir, fmt.Sprintf("fit-out-%04d.wav", slot))
	if err := audio.WriteWAV(src, trimmed); err != nil {
		return nil, false, fmt.Errorf("stage clip for tempo change: %w", err)
	}
	defer os.Remove(src)

	if err := s.stretcher.Stretch(ctx, src, dest, ratio); err != nil {
		return nil, false, err
	}
	defer os.Remove(dest)

	fitted, err := audio.ReadWAV(dest)
	if err != nil {
		return nil, false, fmt.Errorf("read tempo-adjusted clip: %w", err)
	}
	return audio.PadTo(audio.TruncateTo(fitted, target), target), true, nil
}

// assemble joins silence gaps and clips in cue order. Adjacent or
// overlapping cues contribute no gap.
func (s *Synthesizer) assemble(cues []subtitle.Cue, clips []audio.Buffer) (audio.Buffer, error) {
	format := s.format()
	segments := make([]audio.Buffer, 0, 2*len(cues))
	var lastEnd time.Duration
	for i, cue := range cues {
		if gap := cue.Start - lastEnd; gap > 0 {
			segments = append(segments, audio.Silence(gap, format))
		}
		segments = append(segments, clips[i])
		lastEnd = cue.End
	}
	return audio.Concat(segments...)
}

func (s *Synthesizer) stagingDir() (string, error) {
	base := s.opts.WorkDir
	if strings.TrimSpace(base) == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "dub", "prepare staging",
			"failed to create work directory", err)
	}
	dir, err := os.MkdirTemp(base, "dub-*")
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "dub", "prepare staging",
			"failed to create staging directory", err)
	}
	return dir, nil
}

func (s *Synthesizer) format() *audio.Format {
	return &audio.Format{NumChannels: 1, SampleRate: s.opts.SampleRate}
}

// cueError attaches the failing cue's identity to an error so operators can
// find the offending subtitle line. Cancellation passes through untouched.
func (s *Synthesizer) cueError(cue subtitle.Cue, target time.Duration, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return services.Wrap(services.ErrExternalTool, "dub", "render cue",
		fmt.Sprintf("cue %d (%s, target %s)", cue.Index, textSnippet(cue.Text), target), err)
}

// normalizeText flattens multi-line cue text into the single line handed to
// the synthesizer.
func normalizeText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// textSnippet quotes cue text truncated to a readable length for error
// messages and logs.
func textSnippet(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= snippetRunes {
		return fmt.Sprintf("%q", flat)
	}
	return fmt.Sprintf("%q", string(runes[:snippetRunes])+"...")
}
