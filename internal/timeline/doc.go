// Package timeline derives the compressed output timeline from subtitle
// cues.
//
// Cues separated by less than the configured gap threshold merge into one
// kept interval; larger gaps are removed from the output entirely. Two
// consumers depend on the same decision: the cut pipeline turns kept
// intervals into ffmpeg filter graphs, and Resync rewrites subtitle
// timestamps so they line up with the cut video. Both paths share a single
// split predicate, so a threshold change can never desynchronize them.
//
// The cut removes everything before the first cue, so the resynchronized
// first cue always starts at zero.
package timeline
