package engine

import (
	"math"
	"testing"

	"tennis/graph"
	"tennis/scoring"
	"tennis/shot"

	"github.com/stretchr/testify/require"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func buildGraph(t *testing.T, records ...graph.Record) *graph.Graph {
	g, err := graph.Build(records)
	require.NoError(t, err)
	return g
}

var (
	serve1 = shot.New(shot.Serve, shot.Zone1)
	f1     = shot.New(shot.Forehand, shot.Zone1)
	b1     = shot.New(shot.Backhand, shot.Zone1)
)

func TestNewEnvironment(t *testing.T) {
	g := buildGraph(t, graph.Record{LastType: "serve", LastDirection: "1", Type: "f", Direction: "1", Count: 10})

	t.Run("starting with the agent to serve", func(t *testing.T) {
		e, err := NewEnvironment(g, WithRand(fixedRand(0.5)))
		require.NoError(t, err)

		obs := e.Observation()
		require.Equal(t, shot.Error, obs.LastShot.Type, "A match starts from the error sentinel")
		require.True(t, obs.AgentServes)
		require.False(t, e.Done())
		require.Len(t, obs.Features(), NumFeatures)
	})

	t.Run("rejecting bad config", func(t *testing.T) {
		_, err := NewEnvironment(nil)
		require.ErrorIs(t, err, ErrConfig)

		rewards := DefaultRewards()
		rewards.BasePenalty = math.NaN()
		_, err = NewEnvironment(g, WithRewards(rewards))
		require.ErrorIs(t, err, ErrConfig, "Non-finite rewards should be rejected")

		rewards = DefaultRewards()
		rewards.SetWin, rewards.SetLoss = -5, 5
		_, err = NewEnvironment(g, WithRewards(rewards))
		require.ErrorIs(t, err, ErrConfig, "Set win lower than set loss should be rejected")

		_, err = NewEnvironment(g, WithMaxRallyShots(0))
		require.ErrorIs(t, err, ErrConfig)

		_, err = NewEnvironment(g, WithSetsToWin(0))
		require.ErrorIs(t, err, ErrConfig)
	})
}

func TestIllegalAction(t *testing.T) {
	g := buildGraph(t,
		graph.Record{LastType: "serve", LastDirection: "1", Type: "f", Direction: "1", Count: 1000},
		graph.Record{LastType: "f", LastDirection: "1", Type: "b", Direction: "1", Count: 1000},
	)
	e, err := NewEnvironment(g, WithRand(fixedRand(0.5)))
	require.NoError(t, err)

	t.Run("rejecting a stroke before the serve", func(t *testing.T) {
		result, err := e.Step(f1)
		require.NoError(t, err)
		require.True(t, result.Info.IllegalAction)
		require.Equal(t, DefaultRewards().IllegalActionPenalty, result.Reward)
		require.Equal(t, shot.Error, result.Observation.LastShot.Type)
	})

	result, err := e.Step(serve1)
	require.NoError(t, err)
	require.Equal(t, f1, result.Observation.LastShot, "Opponent should return the serve")
	require.Equal(t, []Stroke{{serve1, Agent}, {f1, Opponent}}, result.Info.Shots, "Lookahead should not be played")
	require.Equal(t, DefaultRewards().BasePenalty, result.Reward)

	t.Run("rejecting a serve during a rally", func(t *testing.T) {
		before := e.Observation()
		result, err := e.Step(serve1)
		require.NoError(t, err)
		require.True(t, result.Info.IllegalAction)
		require.Equal(t, DefaultRewards().IllegalActionPenalty, result.Reward)
		require.False(t, result.Done)
		require.Equal(t, before, e.Observation(), "Illegal action should not change the state")
	})

	t.Run("rejecting markers and missing directions", func(t *testing.T) {
		for _, action := range []shot.Event{
			shot.New(shot.Winner, shot.NoDirection),
			shot.New(shot.Error, shot.NoDirection),
			{Type: shot.Backhand},
		} {
			result, err := e.Step(action)
			require.NoError(t, err)
			require.True(t, result.Info.IllegalAction, "%v should be illegal", action)
		}
	})

	t.Run("accepting a legal reply", func(t *testing.T) {
		result, err := e.Step(b1)
		require.NoError(t, err)
		require.False(t, result.Info.IllegalAction)
	})
}

func TestFaults(t *testing.T) {
	t.Run("first serve fault keeps score and server", func(t *testing.T) {
		g := buildGraph(t, graph.Record{LastType: "serve", LastDirection: "1", Type: "error", Direction: "", Count: 1000})
		e, err := NewEnvironment(g, WithRand(fixedRand(0.5)))
		require.NoError(t, err)

		result, err := e.Step(serve1)
		require.NoError(t, err)
		require.Equal(t, 1, result.Info.Faults)
		require.Empty(t, result.Info.Points)
		require.Equal(t, DefaultRewards().BasePenalty, result.Reward)

		obs := result.Observation
		require.True(t, obs.AgentServes)
		require.True(t, obs.SecondServe)
		require.Equal(t, scoring.Love, obs.AgentPoints)
		require.Equal(t, scoring.Love, obs.OpponentPoints)
		require.Equal(t, shot.Error, obs.LastShot.Type)
		require.Equal(t, scoring.Moment{CurrentGameP1: "0", CurrentGameP2: "0", Server: Agent}, e.Match())

		t.Run("second serve fault is a double fault", func(t *testing.T) {
			result, err := e.Step(serve1)
			require.NoError(t, err)
			require.Len(t, result.Info.Points, 1)
			require.Equal(t, EndDoubleFault, result.Info.Points[0].Ending)
			require.Equal(t, Opponent, result.Info.Points[0].Winner)
			require.Equal(t, DefaultRewards().PointLoss, result.Reward)
			require.Equal(t, scoring.Fifteen, result.Observation.OpponentPoints)
			require.False(t, result.Observation.SecondServe, "Next point starts with a first serve")
		})
	})

	t.Run("opponent double faults away its service game", func(t *testing.T) {
		g := buildGraph(t,
			graph.Record{LastType: "error", LastDirection: "", Type: "serve", Direction: "2", Count: 1000},
			graph.Record{LastType: "serve", LastDirection: "2", Type: "error", Direction: "", Count: 1000},
		)
		e, err := NewEnvironment(g, WithServeFirst(false), WithRand(fixedRand(0.5)))
		require.NoError(t, err)

		obs := e.Observation()
		require.Equal(t, 1, obs.AgentGames)
		require.True(t, obs.AgentServes, "Agent should be on serve once the opponent's game is over")
	})
}

func TestAces(t *testing.T) {
	g := buildGraph(t,
		graph.Record{LastType: "serve", LastDirection: "1", Type: "winner", Direction: "", Count: 1000},
		graph.Record{LastType: "serve", LastDirection: "2", Type: "winner", Direction: "", Count: 1000},
		graph.Record{LastType: "serve", LastDirection: "3", Type: "winner", Direction: "", Count: 1000},
	)
	e, err := NewEnvironment(g, WithRand(fixedRand(0.5)))
	require.NoError(t, err)
	rewards := DefaultRewards()

	result, err := e.Step(serve1)
	require.NoError(t, err)
	require.Equal(t, EndAce, result.Info.Points[0].Ending)
	require.Equal(t, rewards.PointWin, result.Reward)

	steps := 1
	for !result.Done {
		result, err = e.Step(serve1)
		require.NoError(t, err)
		require.False(t, result.Info.IllegalAction)
		steps++
	}

	// Six service games of four aces, then a tiebreak served by the agent.
	require.Equal(t, 31, steps)
	require.Equal(t, rewards.PointWin+rewards.GameWin+rewards.SetWin, result.Reward)
	require.Equal(t, 1, result.Observation.AgentSets)
	require.Equal(t, []scoring.SetMoment{{P1: 7, P2: 6}}, e.Match().Sets)

	_, err = e.Step(serve1)
	require.ErrorIs(t, err, ErrMatchOver)

	t.Run("resetting to a fresh match", func(t *testing.T) {
		result, err := e.Reset()
		require.NoError(t, err)
		require.False(t, result.Done)
		require.Equal(t, 0, result.Observation.AgentSets)

		_, err = e.Step(serve1)
		require.NoError(t, err)
	})
}

func TestRallyCap(t *testing.T) {
	g := buildGraph(t,
		graph.Record{LastType: "serve", LastDirection: "1", Type: "f", Direction: "1", Count: 1000},
		graph.Record{LastType: "f", LastDirection: "1", Type: "b", Direction: "1", Count: 1000},
		graph.Record{LastType: "b", LastDirection: "1", Type: "f", Direction: "1", Count: 1000},
	)
	e, err := NewEnvironment(g, WithRand(fixedRand(0.5)), WithMaxRallyShots(3))
	require.NoError(t, err)

	_, err = e.Step(serve1)
	require.NoError(t, err)

	result, err := e.Step(b1)
	require.NoError(t, err)
	require.Len(t, result.Info.Points, 1)
	require.Equal(t, EndRallyCap, result.Info.Points[0].Ending)
	require.Equal(t, Agent, result.Info.Points[0].Winner, "Opponent struck past the cap")
	require.Equal(t, DefaultRewards().PointWin, result.Reward)
	require.Equal(t, shot.Error, result.Observation.LastShot.Type)
}

func TestDeterminism(t *testing.T) {
	g := buildGraph(t,
		graph.Record{LastType: "serve", LastDirection: "1", Type: "f", Direction: "2", Count: 50},
		graph.Record{LastType: "serve", LastDirection: "1", Type: "error", Direction: "", Count: 10},
		graph.Record{LastType: "f", LastDirection: "2", Type: "b", Direction: "2", Count: 30},
		graph.Record{LastType: "f", LastDirection: "2", Type: "winner", Direction: "", Count: 5},
		graph.Record{LastType: "b", LastDirection: "2", Type: "error", Direction: "", Count: 8},
	)

	play := func() ([]float64, []Observation) {
		e, err := NewEnvironment(g, WithSeed(42), WithServeFirst(false))
		require.NoError(t, err)

		var rewards []float64
		var observations []Observation
		obs := e.Observation()
		for i := 0; i < 500 && !e.Done(); i++ {
			action := shot.PlayableActions(obs.LastShot)[i%3]
			result, err := e.Step(action)
			require.NoError(t, err)
			rewards = append(rewards, result.Reward)
			observations = append(observations, result.Observation)
			obs = result.Observation
		}
		return rewards, observations
	}

	rewards1, observations1 := play()
	rewards2, observations2 := play()
	require.NotEmpty(t, rewards1)
	require.Equal(t, rewards1, rewards2, "Same seed should give the same rewards")
	require.Equal(t, observations1, observations2, "Same seed should give the same scores")
}

func TestFeatures(t *testing.T) {
	obs := Observation{
		LastShot:    shot.New(shot.Backhand, shot.Zone3),
		AgentPoints: scoring.Forty,
		AgentGames:  4,
		AgentServes: true,
	}
	features := obs.Features()
	require.Len(t, features, NumFeatures)
	require.Equal(t, 1.0, features[int(shot.Backhand)])
	require.Equal(t, 1.0, features[shot.NumTypes+2], "Zone 3 should be the third direction slot")

	scores := features[shot.NumTypes+len(shot.Directions):]
	require.Equal(t, 3.0, scores[0])
	require.Equal(t, 4.0, scores[5])
	require.Equal(t, 1.0, scores[9])

	marker := Observation{LastShot: shot.New(shot.Winner, shot.NoDirection)}.Features()
	for _, v := range marker[shot.NumTypes : shot.NumTypes+len(shot.Directions)] {
		require.Zero(t, v, "Markers have no direction")
	}
}
