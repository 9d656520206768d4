package engine

import (
	"tennis/scoring"
	"tennis/shot"
)

// Observation is the state exposed to the agent after every step.
type Observation struct {
	LastShot         shot.Event
	AgentPoints      scoring.Point // Standard game score, Love during a tiebreak
	OpponentPoints   scoring.Point
	Tiebreak         bool
	AgentTiebreak    int
	OpponentTiebreak int
	AgentGames       int
	OpponentGames    int
	AgentSets        int
	OpponentSets     int
	AgentServes      bool
	SecondServe      bool
}

// NumFeatures is the length of Observation.Features.
const NumFeatures = shot.NumTypes + len(shot.Directions) + 11

// Features encodes the observation as a flat vector: a one-hot shot type, a
// one-hot direction (all zero for errors and winners), then the scores.
func (o Observation) Features() []float64 {
	features := make([]float64, NumFeatures)
	features[int(o.LastShot.Type)] = 1
	i := shot.NumTypes
	if o.LastShot.Direction.Valid() {
		features[i+int(o.LastShot.Direction)-1] = 1
	}
	i += len(shot.Directions)

	for _, v := range []float64{
		float64(o.AgentPoints),
		float64(o.OpponentPoints),
		boolFeature(o.Tiebreak),
		float64(o.AgentTiebreak),
		float64(o.OpponentTiebreak),
		float64(o.AgentGames),
		float64(o.OpponentGames),
		float64(o.AgentSets),
		float64(o.OpponentSets),
		boolFeature(o.AgentServes),
		boolFeature(o.SecondServe),
	} {
		features[i] = v
		i++
	}
	return features
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (e *Environment) observe() Observation {
	m := e.match
	agent, opponent := side(Agent), side(Opponent)
	obs := Observation{
		LastShot:       e.rally.last,
		AgentPoints:    m.Game.Points[agent],
		OpponentPoints: m.Game.Points[opponent],
		Tiebreak:       m.Game.Kind == scoring.TiebreakGame,
		AgentGames:     m.Games[agent],
		OpponentGames:  m.Games[opponent],
		AgentSets:      m.SetsWon[agent],
		OpponentSets:   m.SetsWon[opponent],
		AgentServes:    m.Server == Agent,
		SecondServe:    !e.rally.firstServe,
	}
	if obs.Tiebreak {
		obs.AgentTiebreak = m.Game.Tiebreak[agent]
		obs.OpponentTiebreak = m.Game.Tiebreak[opponent]
	}
	return obs
}
