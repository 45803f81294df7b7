// Package subtitle models SRT subtitle cues and the operations the pipeline
// performs directly on them.
//
// It provides the Cue type, a tolerant SRT parser and canonical composer,
// stable sorting, and boundary padding. Timeline derivation (merging cues
// into kept intervals, resynchronization) lives in the timeline package;
// this package is only concerned with cue data itself.
package subtitle
