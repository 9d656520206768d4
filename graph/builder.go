package graph

import (
	"fmt"
	"math"
	"strings"

	"tennis/shot"

	"github.com/rs/zerolog/log"
)

// MinProbability is the floor applied to legal targets whose weight underflows,
// so that only illegal targets ever have zero probability.
const MinProbability = 1e-300

// Scaling selects how counts are turned into weights before normalization.
type Scaling int

const (
	// Softmax weights a target by exp(count/temperature).
	Softmax Scaling = iota
	// Power weights a target by (count+1)^(1/temperature).
	Power
)

func (s Scaling) String() string {
	switch s {
	case Softmax:
		return "softmax"
	case Power:
		return "power"
	default:
		return fmt.Sprintf("Scaling(%d)", int(s))
	}
}

// ParseScaling maps a configuration label to a Scaling.
func ParseScaling(label string) (Scaling, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "softmax", "exp":
		return Softmax, nil
	case "power", "pow":
		return Power, nil
	}
	return 0, fmt.Errorf("%w: unknown scaling %q", ErrConfig, label)
}

// Record is one row of the historical count table.
type Record struct {
	LastType      string
	LastDirection string
	Type          string
	Direction     string
	Count         int64
}

type Option func(b *builder)

type builder struct {
	temperature float64
	scaling     Scaling
	skipUnknown bool
}

// WithTemperature sets the smoothing temperature. It must be positive.
func WithTemperature(temperature float64) Option {
	return func(b *builder) {
		b.temperature = temperature
	}
}

func WithScaling(scaling Scaling) Option {
	return func(b *builder) {
		b.scaling = scaling
	}
}

// WithSkipUnknown drops rows with unknown vocabulary or an illegal
// (source, target) pair instead of failing the build.
func WithSkipUnknown(skip bool) Option {
	return func(b *builder) {
		b.skipUnknown = skip
	}
}

// Build converts historical counts into a transition graph covering every
// legal source event.
func Build(records []Record, options ...Option) (*Graph, error) {
	b := &builder{ // Default values
		temperature: 1.0,
		scaling:     Softmax,
	}
	for _, option := range options {
		option(b)
	}
	if math.IsNaN(b.temperature) || math.IsInf(b.temperature, 0) || b.temperature <= 0 {
		return nil, fmt.Errorf("%w: temperature must be positive and finite, got %v", ErrConfig, b.temperature)
	}
	if b.scaling != Softmax && b.scaling != Power {
		return nil, fmt.Errorf("%w: unknown scaling %v", ErrConfig, b.scaling)
	}

	// Seed every legal key with a zero count
	counts := [shot.NumEvents][]int64{}
	targets := [shot.NumEvents][]shot.Event{}
	for _, src := range shot.Events() {
		targets[src.Index()] = shot.Successors(src)
		counts[src.Index()] = make([]int64, len(targets[src.Index()]))
	}

	skipped := 0
	for i, record := range records {
		src, dst, err := parseRecord(record)
		if err != nil {
			if b.skipUnknown {
				skipped++
				continue
			}
			return nil, fmt.Errorf("%w: row %d: %v", ErrConfig, i, err)
		}
		if record.Count < 0 {
			return nil, fmt.Errorf("%w: row %d: negative count %d", ErrConfig, i, record.Count)
		}

		slot := indexOf(targets[src.Index()], dst)
		row := counts[src.Index()]
		if row[slot] > math.MaxInt64-record.Count {
			return nil, fmt.Errorf("%w: row %d: count overflow for %s -> %s", ErrConfig, i, src, dst)
		}
		row[slot] += record.Count
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Int("records", len(records)).Msg("skipped count rows with unknown vocabulary or illegal transitions")
	}

	g := &Graph{temperature: b.temperature, scaling: b.scaling}
	for _, src := range shot.Events() {
		idx := src.Index()
		probs := normalize(counts[idx], b.temperature, b.scaling)
		g.dists[idx] = &Distribution{
			Targets:    targets[idx],
			Counts:     counts[idx],
			Probs:      probs,
			cumulative: cumulate(probs),
		}
	}

	log.Debug().
		Int("records", len(records)).
		Int("sources", len(g.Sources())).
		Float64("temperature", b.temperature).
		Str("scaling", b.scaling.String()).
		Msg("built transition graph")
	return g, nil
}

func parseRecord(record Record) (src, dst shot.Event, err error) {
	src, err = shot.Parse(record.LastType, record.LastDirection)
	if err != nil {
		return src, dst, fmt.Errorf("source: %w", err)
	}
	dst, err = shot.Parse(record.Type, record.Direction)
	if err != nil {
		return src, dst, fmt.Errorf("target: %w", err)
	}
	if !shot.CanFollow(src, dst) {
		return src, dst, fmt.Errorf("illegal transition %s -> %s", src, dst)
	}
	return src, dst, nil
}

func indexOf(targets []shot.Event, dst shot.Event) int {
	for i, target := range targets {
		if target == dst {
			return i
		}
	}
	panic(fmt.Sprintf("target %s missing from legal key space", dst))
}

// normalize computes temperature-scaled probabilities in log space so that
// large counts or small temperatures do not overflow.
func normalize(counts []int64, temperature float64, scaling Scaling) []float64 {
	logits := make([]float64, len(counts))
	maxLogit := math.Inf(-1)
	for i, count := range counts {
		switch scaling {
		case Power:
			logits[i] = math.Log(float64(count)+1) / temperature
		default:
			logits[i] = float64(count) / temperature
		}
		maxLogit = math.Max(maxLogit, logits[i])
	}

	sum := 0.0
	probs := make([]float64, len(counts))
	for i, logit := range logits {
		probs[i] = math.Exp(logit - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] = math.Max(probs[i]/sum, MinProbability)
	}
	return probs
}

func cumulate(probs []float64) []float64 {
	cumulative := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cumulative[i] = total
	}
	return cumulative
}
