package engine

import (
	"tennis/graph"
	"tennis/meta"
	"tennis/scoring"

	"golang.org/x/exp/rand"
)

type options struct {
	serveFirst    bool
	rewards       Rewards
	setsToWin     int
	maxRallyShots int
	rand          graph.Rand
}

type Option func(*options)

func defaultOptions() options {
	return options{
		serveFirst:    true,
		rewards:       DefaultRewards(),
		setsToWin:     meta.SETS_TO_WIN,
		maxRallyShots: meta.MAX_RALLY_SHOTS,
	}
}

// WithServeFirst sets whether the agent serves the first game.
func WithServeFirst(serveFirst bool) Option {
	return func(o *options) {
		o.serveFirst = serveFirst
	}
}

func WithRewards(rewards Rewards) Option {
	return func(o *options) {
		o.rewards = rewards
	}
}

// WithSetsToWin sets the number of sets that decides the match.
func WithSetsToWin(sets int) Option {
	return func(o *options) {
		o.setsToWin = sets
	}
}

// WithMaxRallyShots caps the strokes of a rally. A rally that runs past the
// cap ends as an error by the player who struck last.
func WithMaxRallyShots(shots int) Option {
	return func(o *options) {
		o.maxRallyShots = shots
	}
}

// WithSeed seeds the opponent's sampler for reproducible episodes.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rand = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects the source of uniform draws used for opponent sampling.
func WithRand(r graph.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

func (o options) scoringOptions() []scoring.Option {
	return []scoring.Option{scoring.WithSetsToWin(o.setsToWin)}
}
