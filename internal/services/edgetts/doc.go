// Package edgetts wraps the edge-tts command line tool, which renders text
// to speech through Microsoft Edge's online TTS voices.
//
// The package exposes a small Client interface so the dub pipeline can be
// tested without network access or the binary installed. Synthesized media
// is written as mp3; decoding to PCM is the caller's concern.
package edgetts
