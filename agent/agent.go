package agent

import (
	"tennis/engine"
	"tennis/shot"
)

// Agent chooses the next shot to play from an observation. The environment
// penalizes actions that cannot follow the last shot.
type Agent interface {
	Act(obs engine.Observation) shot.Event
}

// Rand is the source of uniform draws in [0, 1).
type Rand interface {
	Float64() float64
}
