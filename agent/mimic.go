package agent

import (
	"math"

	"tennis/engine"
	"tennis/graph"
	"tennis/shot"
)

type mimicAgent struct {
	graph       *graph.Graph
	temperature float64
	rand        Rand
}

// NewMimic returns an agent that plays like the players behind the transition
// graph: it samples the graph's distribution of the next shot, restricted to
// playable actions, with probabilities raised to 1/temperature. It panics on
// a nil graph or a non-positive temperature.
func NewMimic(g *graph.Graph, temperature float64, r Rand) Agent {
	if g == nil {
		panic("mimic agent needs a transition graph")
	}
	if !(temperature > 0) {
		panic("mimic agent needs a positive temperature")
	}
	return mimicAgent{graph: g, temperature: temperature, rand: r}
}

func (a mimicAgent) Act(obs engine.Observation) shot.Event {
	actions := shot.PlayableActions(obs.LastShot)
	policy := make([]float64, len(actions))
	for i, action := range actions {
		policy[i] = a.graph.Probability(obs.LastShot, action)
	}
	policy = adjustTemperature(policy, a.temperature)
	return actions[sample(policy, a.rand)]
}

// adjustTemperature raises each weight to 1/temperature and normalizes. All
// zero weights give a uniform policy.
func adjustTemperature(policy []float64, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, p := range policy {
		adjusted[i] = math.Pow(p, exponent)
		sum += adjusted[i]
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		for i := range adjusted {
			adjusted[i] = 1.0 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, r Rand) int {
	sampled := r.Float64()
	cumulative := 0.0
	for i, p := range policy {
		cumulative += p
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
