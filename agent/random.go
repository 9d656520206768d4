package agent

import (
	"tennis/engine"
	"tennis/shot"
)

type randomAgent struct {
	rand Rand
}

// NewRandom returns an agent that plays a uniformly random legal action.
func NewRandom(r Rand) Agent {
	return randomAgent{rand: r}
}

func (a randomAgent) Act(obs engine.Observation) shot.Event {
	actions := shot.PlayableActions(obs.LastShot)
	i := int(a.rand.Float64() * float64(len(actions)))
	if i >= len(actions) {
		i = len(actions) - 1
	}
	return actions[i]
}
