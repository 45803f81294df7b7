// Package cutplan builds ffmpeg filter graphs that cut a video down to a
// set of kept intervals.
//
// Two strategies produce equivalent timelines through different graphs. The
// select strategy keeps a single decode pass: it resamples the input to a
// constant frame rate, drops frames and samples outside the kept intervals
// with select/aselect, and rebuilds timestamps from the surviving frame and
// sample counts. The trim strategy cuts one exact clip per interval with
// trim/atrim and concatenates the clips.
//
// The constant-rate resample on the select path bounds video/audio drift at
// each boundary to less than one frame, but residual error can accumulate
// across many boundaries inside a long kept interval. That approximation is
// inherent to rebuilding timestamps from counts; the trim strategy performs
// exact per-clip cuts and is the alternative when boundary accumulation
// matters more than encode speed.
//
// Builders only format intervals they are given; deriving intervals from
// cues is the timeline package's job and happens exactly once per run.
package cutplan
