// Package voicecache persists synthesized speech clips between dub runs.
//
// Clips are keyed by voice, rate, volume, and cue text, so re-dubbing a
// video after editing a handful of subtitles only synthesizes the cues that
// changed. Rows live in a SQLite database; the PCM itself is stored as WAV
// files under clips/ inside the cache directory. A file lock guards the
// directory against concurrent dub runs.
package voicecache
