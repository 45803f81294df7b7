// Package dub synthesizes a dubbed audio track from subtitle cues.
//
// Each cue's text is rendered with edge-tts and forced onto the cue's exact
// time span: rendered speech longer than the span is silence-trimmed and
// time-compressed with ffmpeg's pitch-preserving atempo filter, shorter
// speech is right-padded with silence. Inter-cue gaps become silence, so
// the assembled track lines up with the subtitle timeline from the first
// sample to the last. Cues are rendered by a worker pool and reassembled
// in cue order regardless of completion order.
package dub
