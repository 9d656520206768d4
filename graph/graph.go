package graph

import (
	"fmt"
	"sort"

	"tennis/shot"
)

// Rand is the source of uniform draws in [0, 1) used for sampling.
type Rand interface {
	Float64() float64
}

// Distribution is the conditional distribution of the next event given one source event.
// Targets are the legal successors of the source in shot.Events() order.
type Distribution struct {
	Targets []shot.Event
	Counts  []int64
	Probs   []float64

	cumulative []float64
}

// Row is one (source, target) entry of the flattened graph.
type Row struct {
	Source      shot.Event
	Target      shot.Event
	Count       int64
	Probability float64
}

// Graph is an immutable table of P(next event | previous event). It is safe
// for concurrent use once Build has returned.
type Graph struct {
	temperature float64
	scaling     Scaling
	dists       [shot.NumEvents]*Distribution
}

func (g *Graph) Temperature() float64 {
	return g.temperature
}

func (g *Graph) Scaling() Scaling {
	return g.scaling
}

// Sources returns every source event that has a distribution.
func (g *Graph) Sources() []shot.Event {
	var sources []shot.Event
	for _, e := range shot.Events() {
		if g.dists[e.Index()] != nil {
			sources = append(sources, e)
		}
	}
	return sources
}

// Distribution returns a copy of the distribution for src.
func (g *Graph) Distribution(src shot.Event) (Distribution, bool) {
	d := g.lookup(src)
	if d == nil {
		return Distribution{}, false
	}
	return Distribution{
		Targets: append([]shot.Event(nil), d.Targets...),
		Counts:  append([]int64(nil), d.Counts...),
		Probs:   append([]float64(nil), d.Probs...),
	}, true
}

// Probability returns P(dst | src), zero for illegal or unknown pairs.
func (g *Graph) Probability(src, dst shot.Event) float64 {
	d := g.lookup(src)
	if d == nil {
		return 0
	}
	dst = dst.Normalize()
	for i, target := range d.Targets {
		if target == dst {
			return d.Probs[i]
		}
	}
	return 0
}

// Rows flattens the graph in source then target order.
func (g *Graph) Rows() []Row {
	var rows []Row
	for _, src := range g.Sources() {
		d := g.dists[src.Index()]
		for i, target := range d.Targets {
			rows = append(rows, Row{
				Source:      src,
				Target:      target,
				Count:       d.Counts[i],
				Probability: d.Probs[i],
			})
		}
	}
	return rows
}

// Sample draws the next event after src, weighted by the graph's probabilities.
func (g *Graph) Sample(r Rand, src shot.Event) (shot.Event, error) {
	src = src.Normalize()
	d := g.lookup(src)
	if d == nil || len(d.cumulative) == 0 {
		return shot.Event{}, fmt.Errorf("%w: no distribution for source %s", ErrInvariantViolation, src)
	}
	total := d.cumulative[len(d.cumulative)-1]
	if !(total > 0) {
		return shot.Event{}, fmt.Errorf("%w: distribution for source %s sums to %v", ErrInvariantViolation, src, total)
	}

	x := r.Float64() * total
	i := sort.Search(len(d.cumulative), func(i int) bool {
		return d.cumulative[i] > x
	})
	if i == len(d.cumulative) {
		i-- // Fallback in case of rounding errors
	}

	next := d.Targets[i]
	if !shot.CanFollow(src, next) {
		return shot.Event{}, fmt.Errorf("%w: sampled %s after %s", ErrInvariantViolation, next, src)
	}
	return next, nil
}

func (g *Graph) lookup(src shot.Event) *Distribution {
	idx := src.Normalize().Index()
	if idx < 0 {
		return nil
	}
	return g.dists[idx]
}
