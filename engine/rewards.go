package engine

import (
	"fmt"
	"math"
)

// Rewards shapes the scalar reward returned by Step.
type Rewards struct {
	PointWin             float64 `koanf:"point_win"`
	PointLoss            float64 `koanf:"point_loss"`
	GameWin              float64 `koanf:"game_win"`
	GameLoss             float64 `koanf:"game_loss"`
	SetWin               float64 `koanf:"set_win"`
	SetLoss              float64 `koanf:"set_loss"`
	BasePenalty          float64 `koanf:"base_penalty"`           // Added once to a step in which no point ended
	IllegalActionPenalty float64 `koanf:"illegal_action_penalty"` // Replaces the whole reward of a rejected step
}

func DefaultRewards() Rewards {
	return Rewards{
		PointWin:             1,
		PointLoss:            -1,
		GameWin:              2,
		GameLoss:             -2,
		SetWin:               5,
		SetLoss:              -5,
		BasePenalty:          -0.01,
		IllegalActionPenalty: -1,
	}
}

// Validate rejects non-finite values and a win reward lower than its loss.
func (r Rewards) Validate() error {
	values := map[string]float64{
		"point_win":              r.PointWin,
		"point_loss":             r.PointLoss,
		"game_win":               r.GameWin,
		"game_loss":              r.GameLoss,
		"set_win":                r.SetWin,
		"set_loss":               r.SetLoss,
		"base_penalty":           r.BasePenalty,
		"illegal_action_penalty": r.IllegalActionPenalty,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: reward %s is %v", ErrConfig, name, v)
		}
	}
	if r.PointWin < r.PointLoss || r.GameWin < r.GameLoss || r.SetWin < r.SetLoss {
		return fmt.Errorf("%w: win rewards must not be lower than loss rewards", ErrConfig)
	}
	return nil
}

// point returns the shaped reward of one resolved point from the agent's side.
func (r Rewards) point(outcome PointOutcome) float64 {
	reward := r.PointLoss
	if outcome.Winner == Agent {
		reward = r.PointWin
	}
	switch outcome.Result.GameWinner {
	case Agent:
		reward += r.GameWin
	case Opponent:
		reward += r.GameLoss
	}
	switch outcome.Result.SetWinner {
	case Agent:
		reward += r.SetWin
	case Opponent:
		reward += r.SetLoss
	}
	return reward
}
