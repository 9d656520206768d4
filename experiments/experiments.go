package experiments

import (
	"context"
	"fmt"
	"time"

	"tennis/agent"
	"tennis/engine"
	"tennis/experiments/metrics"
	"tennis/graph"
	"tennis/meta"
	"tennis/scoring"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// AgentFactory builds the agent of one episode. Agents are not shared
// between episodes.
type AgentFactory func(episode int, seed uint64) agent.Agent

// Runner plays rollout episodes in parallel against one shared graph.
type Runner struct {
	graph      *graph.Graph
	newAgent   AgentFactory
	runID      string
	episodes   int
	goroutines int
	maxSteps   int
	seed       uint64
	collector  metrics.Collector
	envOptions []engine.Option
}

type Option func(*Runner)

func WithEpisodes(episodes int) Option {
	return func(r *Runner) {
		r.episodes = episodes
	}
}

func WithGoroutines(goroutines int) Option {
	return func(r *Runner) {
		r.goroutines = goroutines
	}
}

// WithMaxSteps caps the agent steps of an episode.
func WithMaxSteps(steps int) Option {
	return func(r *Runner) {
		r.maxSteps = steps
	}
}

// WithSeed sets the base seed. Episode i is seeded with seed+i.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(r *Runner) {
		r.collector = collector
	}
}

// WithEnvironmentOptions applies options to every episode's environment.
// The seed option is always overridden per episode.
func WithEnvironmentOptions(options ...engine.Option) Option {
	return func(r *Runner) {
		r.envOptions = append(r.envOptions, options...)
	}
}

func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner returns a runner with a fresh run ID. It panics on a nil graph or
// agent factory.
func NewRunner(g *graph.Graph, newAgent AgentFactory, options ...Option) *Runner {
	if g == nil || newAgent == nil {
		panic("runner needs a graph and an agent factory")
	}
	r := &Runner{
		graph:      g,
		newAgent:   newAgent,
		runID:      uuid.NewString(),
		episodes:   meta.EPISODES,
		goroutines: meta.GO_ROUTINES,
		maxSteps:   meta.MAX_STEPS,
		collector:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(r)
	}
	if r.goroutines < 1 {
		r.goroutines = 1
	}
	return r
}

func (r *Runner) RunID() string {
	return r.runID
}

// Run plays every episode and returns their records in episode order. The
// records do not depend on the number of goroutines.
func (r *Runner) Run(ctx context.Context) ([]metrics.EpisodeRecord, error) {
	log.Info().Msgf("starting run %s with %d episodes on %d goroutines...", r.runID, r.episodes, r.goroutines)

	records := make([]metrics.EpisodeRecord, r.episodes)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.goroutines)
	for i := 0; i < r.episodes; i++ {
		i := i
		group.Go(func() error {
			record, err := r.runEpisode(ctx, i)
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			records[i] = record
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	log.Info().Msgf("completed run %s", r.runID)
	return records, nil
}

func (r *Runner) runEpisode(ctx context.Context, episode int) (metrics.EpisodeRecord, error) {
	seed := r.seed + uint64(episode)
	record := metrics.EpisodeRecord{
		RunID:   r.runID,
		Episode: episode,
		Seed:    seed,
	}
	start := time.Now()

	options := append([]engine.Option{}, r.envOptions...)
	options = append(options, engine.WithSeed(seed))
	env, err := engine.NewEnvironment(r.graph, options...)
	if err != nil {
		return record, err
	}
	a := r.newAgent(episode, seed)

	// Points played before the agent's first turn count toward the score
	// but carry no reward.
	result, err := env.Reset()
	if err != nil {
		return record, err
	}
	r.observe(&record, result)
	record.Reward = 0

	for record.Steps < r.maxSteps && !result.Done {
		if err := ctx.Err(); err != nil {
			return record, err
		}
		result, err = env.Step(a.Act(result.Observation))
		if err != nil {
			return record, err
		}
		record.Steps++
		r.observe(&record, result)
	}

	record.Duration = time.Since(start)
	r.collector.CompleteEpisode(record)
	log.Info().Msgf("completed episode %d in %d steps with winner: %s", episode, record.Steps, record.Winner)
	return record, nil
}

func (r *Runner) observe(record *metrics.EpisodeRecord, result engine.StepResult) {
	record.Reward += result.Reward
	if result.Info.IllegalAction {
		record.IllegalActions++
		r.collector.AddIllegalAction()
	}
	for i := 0; i < result.Info.Faults; i++ {
		record.Faults++
		r.collector.AddFault()
	}

	for _, point := range result.Info.Points {
		tally(&record.AgentPoints, &record.OpponentPoints, point.Winner)
		r.collector.AddPoint(point.Winner)
		if winner := point.Result.GameWinner; winner != scoring.NoPlayer {
			tally(&record.AgentGames, &record.OpponentGames, winner)
			r.collector.AddGame(winner)
		}
		if winner := point.Result.SetWinner; winner != scoring.NoPlayer {
			tally(&record.AgentSets, &record.OpponentSets, winner)
			r.collector.AddSet(winner)
		}
		if winner := point.Result.MatchWinner; winner != scoring.NoPlayer {
			record.Winner = winner.String()
		}
	}
}

func tally(mine, theirs *int, winner scoring.Player) {
	if winner == engine.Agent {
		*mine++
	} else {
		*theirs++
	}
}
