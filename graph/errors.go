package graph

import "errors"

var (
	// ErrConfig reports bad builder input: temperature, scaling mode, vocabulary or counts.
	ErrConfig = errors.New("transition graph config")
	// ErrInvariantViolation reports a graph that cannot be sampled. It means the
	// builder produced something it never should have.
	ErrInvariantViolation = errors.New("transition graph invariant violated")
)
