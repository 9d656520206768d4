package metrics

import (
	"tennis/scoring"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subsystem = "rollout"

// PrometheusCollector exports rollout counters to a Prometheus registry.
type PrometheusCollector struct {
	points         *prometheus.CounterVec
	games          *prometheus.CounterVec
	sets           *prometheus.CounterVec
	matches        *prometheus.CounterVec
	faults         prometheus.Counter
	illegalActions prometheus.Counter
	episodes       prometheus.Counter
	episodeReward  prometheus.Histogram
	episodeSteps   prometheus.Histogram
}

// NewPrometheusCollector registers the rollout metrics with registry. It
// panics if they are already registered.
func NewPrometheusCollector(registry prometheus.Registerer, namespace string) *PrometheusCollector {
	auto := promauto.With(registry)
	return &PrometheusCollector{
		points: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "points_total",
			Help:      "Total number of points by winner",
		}, []string{"winner"}),
		games: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "games_total",
			Help:      "Total number of games by winner",
		}, []string{"winner"}),
		sets: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sets_total",
			Help:      "Total number of sets by winner",
		}, []string{"winner"}),
		matches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "matches_total",
			Help:      "Total number of decided matches by winner",
		}, []string{"winner"}),
		faults: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "faults_total",
			Help:      "Total number of first serve faults",
		}),
		illegalActions: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "illegal_actions_total",
			Help:      "Total number of actions rejected by the environment",
		}),
		episodes: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "episodes_total",
			Help:      "Total number of completed episodes",
		}),
		episodeReward: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "episode_reward",
			Help:      "Cumulative reward of an episode",
			Buckets:   prometheus.LinearBuckets(-200, 25, 17),
		}),
		episodeSteps: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "episode_steps",
			Help:      "Number of agent steps in an episode",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		}),
	}
}

func (m *PrometheusCollector) AddPoint(winner scoring.Player) {
	m.points.WithLabelValues(label(winner)).Inc()
}

func (m *PrometheusCollector) AddGame(winner scoring.Player) {
	m.games.WithLabelValues(label(winner)).Inc()
}

func (m *PrometheusCollector) AddSet(winner scoring.Player) {
	m.sets.WithLabelValues(label(winner)).Inc()
}

func (m *PrometheusCollector) AddFault() {
	m.faults.Inc()
}

func (m *PrometheusCollector) AddIllegalAction() {
	m.illegalActions.Inc()
}

func (m *PrometheusCollector) CompleteEpisode(record EpisodeRecord) {
	m.episodes.Inc()
	m.episodeReward.Observe(record.Reward)
	m.episodeSteps.Observe(float64(record.Steps))
	switch record.Winner {
	case scoring.Player1.String():
		m.matches.WithLabelValues(label(scoring.Player1)).Inc()
	case scoring.Player2.String():
		m.matches.WithLabelValues(label(scoring.Player2)).Inc()
	}
}

func label(winner scoring.Player) string {
	if winner == scoring.Player1 {
		return "agent"
	}
	return "opponent"
}
