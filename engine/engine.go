package engine

import (
	"fmt"
	"time"

	"tennis/graph"
	"tennis/scoring"
	"tennis/shot"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	Agent    = scoring.Player1
	Opponent = scoring.Player2
)

// Ending classifies how a point was decided.
type Ending int

const (
	EndWinner Ending = iota
	EndError
	EndAce
	EndDoubleFault
	EndRallyCap
)

func (e Ending) String() string {
	switch e {
	case EndWinner:
		return "winner"
	case EndError:
		return "error"
	case EndAce:
		return "ace"
	case EndDoubleFault:
		return "double_fault"
	case EndRallyCap:
		return "rally_cap"
	default:
		return fmt.Sprintf("Ending(%d)", int(e))
	}
}

// Stroke is one event played during a step, attributed to the player it belongs to.
type Stroke struct {
	Event   shot.Event
	Striker scoring.Player
}

// PointOutcome is a point resolved during a step.
type PointOutcome struct {
	Winner scoring.Player
	Ending Ending
	Result scoring.PointResult
}

// Info carries diagnostics of a step.
type Info struct {
	IllegalAction bool
	Shots         []Stroke
	Points        []PointOutcome
	Faults        int
}

type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
	Info        Info
}

// rally is the state of the point in progress.
type rally struct {
	last       shot.Event     // Error sentinel or the marker that ended the previous point
	striker    scoring.Player // Striker of last, NoPlayer between points
	shots      int
	firstServe bool
}

func newRally(last shot.Event) rally {
	return rally{last: last, firstServe: true}
}

// Environment simulates a match between an agent and an opponent whose shots
// are sampled from a transition graph. It is not safe for concurrent use;
// instances may share one graph.
type Environment struct {
	graph   *graph.Graph
	options options
	match   *scoring.Match
	rally   rally
}

// NewEnvironment returns an environment at the start of a match. When the
// opponent serves first, its opening turns have already been simulated.
func NewEnvironment(g *graph.Graph, opts ...Option) (*Environment, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil transition graph", ErrConfig)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.rewards.Validate(); err != nil {
		return nil, err
	}
	if o.maxRallyShots <= 0 {
		return nil, fmt.Errorf("%w: max rally shots %d", ErrConfig, o.maxRallyShots)
	}
	if o.setsToWin <= 0 {
		return nil, fmt.Errorf("%w: sets to win %d", ErrConfig, o.setsToWin)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	e := &Environment{graph: g, options: o}
	if _, err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset starts a new match with the same graph and options. The random
// source is not reseeded.
func (e *Environment) Reset() (StepResult, error) {
	server := Agent
	if !e.options.serveFirst {
		server = Opponent
	}
	e.match = scoring.NewMatch(server, e.options.scoringOptions()...)
	e.rally = newRally(shot.New(shot.Error, shot.NoDirection))

	var info Info
	if err := e.simulate(&info); err != nil {
		return StepResult{}, err
	}
	return e.result(info), nil
}

// Observation returns the current state without advancing the match.
func (e *Environment) Observation() Observation {
	return e.observe()
}

// Match returns a snapshot of the score.
func (e *Environment) Match() scoring.Moment {
	return e.match.Snapshot()
}

func (e *Environment) Done() bool {
	return e.match.IsOver()
}

// Step plays action as the agent's shot and simulates the opponent until the
// agent is on turn again or the match is decided. An illegal action returns
// the illegal action penalty and leaves the state unchanged.
func (e *Environment) Step(action shot.Event) (StepResult, error) {
	if e.match.IsOver() {
		return StepResult{}, ErrMatchOver
	}
	if !shot.IsPlayable(e.rally.last, action) {
		log.Debug().Str("last", e.rally.last.String()).Str("action", action.String()).Msg("illegal action")
		return StepResult{
			Observation: e.observe(),
			Reward:      e.options.rewards.IllegalActionPenalty,
			Info:        Info{IllegalAction: true},
		}, nil
	}

	var info Info
	e.strike(&info, Agent, action)
	if err := e.simulate(&info); err != nil {
		return StepResult{}, err
	}
	return e.result(info), nil
}

func (e *Environment) result(info Info) StepResult {
	reward := 0.0
	for _, outcome := range info.Points {
		reward += e.options.rewards.point(outcome)
	}
	if len(info.Points) == 0 {
		reward += e.options.rewards.BasePenalty
	}
	return StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Done:        e.match.IsOver(),
		Info:        info,
	}
}

// turn returns the player due to strike next.
func (e *Environment) turn() scoring.Player {
	if e.rally.last.IsMarker() {
		return e.match.Server
	}
	return e.rally.striker.Other()
}

// simulate plays opponent turns while the opponent is on turn.
func (e *Environment) simulate(info *Info) error {
	for !e.match.IsOver() && e.turn() == Opponent {
		if err := e.opponentTurn(info); err != nil {
			return err
		}
	}
	return nil
}

// opponentTurn samples up to two events. A marker in the first ply decides
// the agent's last shot, otherwise the first ply is the opponent's shot. A
// marker in the second ply decides the opponent's shot, any other second ply
// is discarded and the agent replies to the opponent's shot.
func (e *Environment) opponentTurn(info *Info) error {
	first, err := e.graph.Sample(e.options.rand, e.rally.last)
	if err != nil {
		return fmt.Errorf("opponent shot: %w", err)
	}
	if first.IsMarker() {
		e.resolve(info, first)
		return nil
	}
	if ended := e.strike(info, Opponent, first); ended {
		return nil
	}

	second, err := e.graph.Sample(e.options.rand, first)
	if err != nil {
		return fmt.Errorf("opponent lookahead: %w", err)
	}
	if second.IsMarker() {
		e.resolve(info, second)
	}
	return nil
}

// strike plays a serve or stroke. It reports whether the rally cap ended the point.
func (e *Environment) strike(info *Info, striker scoring.Player, event shot.Event) bool {
	event = event.Normalize()
	e.rally.last = event
	e.rally.striker = striker
	e.rally.shots++
	info.Shots = append(info.Shots, Stroke{Event: event, Striker: striker})

	if e.rally.shots > e.options.maxRallyShots {
		log.Debug().Int("shots", e.rally.shots).Str("striker", striker.String()).Msg("rally cap reached")
		forced := shot.New(shot.Error, shot.NoDirection)
		info.Shots = append(info.Shots, Stroke{Event: forced, Striker: striker})
		e.award(info, striker.Other(), EndRallyCap, forced)
		return true
	}
	return false
}

// resolve applies an error or winner marker to the last shot of the rally.
func (e *Environment) resolve(info *Info, marker shot.Event) {
	marker = marker.Normalize()
	striker := e.rally.striker
	serve := e.rally.last.Type == shot.Serve
	info.Shots = append(info.Shots, Stroke{Event: marker, Striker: striker})

	switch {
	case marker.Type == shot.Winner && serve:
		e.award(info, striker, EndAce, marker)
	case marker.Type == shot.Winner:
		e.award(info, striker, EndWinner, marker)
	case serve && e.rally.firstServe:
		info.Faults++
		log.Debug().Str("server", striker.String()).Msg("fault")
		e.rally = rally{last: marker}
	case serve:
		e.award(info, striker.Other(), EndDoubleFault, marker)
	default:
		e.award(info, striker.Other(), EndError, marker)
	}
}

// award records a point and starts the next rally from the ending marker.
func (e *Environment) award(info *Info, winner scoring.Player, ending Ending, marker shot.Event) {
	result := e.match.RecordPoint(winner)
	info.Points = append(info.Points, PointOutcome{Winner: winner, Ending: ending, Result: result})
	e.rally = newRally(marker)

	log.Debug().
		Str("winner", winner.String()).
		Str("ending", ending.String()).
		Strs("game", result.GameScore[:]).
		Ints("set", result.SetScore[:]).
		Msg("point")
}

func side(p scoring.Player) int {
	if p == Agent {
		return 0
	}
	return 1
}
