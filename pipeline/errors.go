package pipeline

import (
	"errors"
	"fmt"
)

// Stage-level failure markers. Per-item problems (one bad URL, one dropped
// script line) are absorbed and logged inside the stages; anything tagged
// with one of these aborts the run.
var (
	ErrPlanning      = errors.New("planning failure")
	ErrResearch      = errors.New("research failure")
	ErrSummarization = errors.New("summarization failure")
	ErrScript        = errors.New("script failure")
	ErrSynthesis     = errors.New("synthesis failure")

	// ErrUpstream tags raw API and network faults from the external
	// services so callers can tell them apart from local validation.
	ErrUpstream = errors.New("upstream service error")
)

// Failure records which stage aborted the run and why. It unwraps to the
// stage's marker error and the underlying cause.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }
