// meta/meta.go
package meta

// GO_ROUTINES defines the number of rollout goroutines.
const GO_ROUTINES = 8

// EPISODES defines the number of rollout episodes.
const EPISODES = 150

// MAX_STEPS defines the step budget of a single episode.
const MAX_STEPS = 5000

// MAX_RALLY_SHOTS caps the strokes of a single rally.
const MAX_RALLY_SHOTS = 200

// SETS_TO_WIN defines the default match length.
const SETS_TO_WIN = 1
