package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"tennis/scoring"
)

// EpisodeRecord is the outcome of one rollout episode.
type EpisodeRecord struct {
	RunID          string
	Episode        int
	Seed           uint64
	Steps          int
	Reward         float64
	AgentPoints    int
	OpponentPoints int
	AgentGames     int
	OpponentGames  int
	AgentSets      int
	OpponentSets   int
	Faults         int
	IllegalActions int
	Winner         string // Empty when the step budget ran out first
	Duration       time.Duration
}

// Summary aggregates every episode reported to a collector.
type Summary struct {
	Episodes       int
	Steps          int
	TotalReward    float64
	AgentPoints    int
	OpponentPoints int
	AgentGames     int
	OpponentGames  int
	AgentSets      int
	OpponentSets   int
	Faults         int
	IllegalActions int
	MatchesWon     int
	MatchesLost    int
}

// MeanReward returns the average episode reward.
func (s Summary) MeanReward() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.TotalReward / float64(s.Episodes)
}

// Collector observes rollouts. Implementations are safe for concurrent use.
type Collector interface {
	AddPoint(winner scoring.Player)
	AddGame(winner scoring.Player)
	AddSet(winner scoring.Player)
	AddFault()
	AddIllegalAction()
	CompleteEpisode(record EpisodeRecord)
}

type tally struct {
	agent    atomic.Int64
	opponent atomic.Int64
}

func (t *tally) add(winner scoring.Player) {
	if winner == scoring.Player1 {
		t.agent.Add(1)
	} else {
		t.opponent.Add(1)
	}
}

// Counter counts rollout events in memory.
type Counter struct {
	points         tally
	games          tally
	sets           tally
	matches        tally
	faults         atomic.Int64
	illegalActions atomic.Int64
	episodes       atomic.Int64
	steps          atomic.Int64

	mu          sync.Mutex
	totalReward float64
}

func NewCollector() *Counter {
	return &Counter{}
}

func (m *Counter) AddPoint(winner scoring.Player) {
	m.points.add(winner)
}

func (m *Counter) AddGame(winner scoring.Player) {
	m.games.add(winner)
}

func (m *Counter) AddSet(winner scoring.Player) {
	m.sets.add(winner)
}

func (m *Counter) AddFault() {
	m.faults.Add(1)
}

func (m *Counter) AddIllegalAction() {
	m.illegalActions.Add(1)
}

func (m *Counter) CompleteEpisode(record EpisodeRecord) {
	m.episodes.Add(1)
	m.steps.Add(int64(record.Steps))
	switch record.Winner {
	case scoring.Player1.String():
		m.matches.add(scoring.Player1)
	case scoring.Player2.String():
		m.matches.add(scoring.Player2)
	}

	m.mu.Lock()
	m.totalReward += record.Reward
	m.mu.Unlock()
}

func (m *Counter) Summary() Summary {
	m.mu.Lock()
	totalReward := m.totalReward
	m.mu.Unlock()

	return Summary{
		Episodes:       int(m.episodes.Load()),
		Steps:          int(m.steps.Load()),
		TotalReward:    totalReward,
		AgentPoints:    int(m.points.agent.Load()),
		OpponentPoints: int(m.points.opponent.Load()),
		AgentGames:     int(m.games.agent.Load()),
		OpponentGames:  int(m.games.opponent.Load()),
		AgentSets:      int(m.sets.agent.Load()),
		OpponentSets:   int(m.sets.opponent.Load()),
		Faults:         int(m.faults.Load()),
		IllegalActions: int(m.illegalActions.Load()),
		MatchesWon:     int(m.matches.agent.Load()),
		MatchesLost:    int(m.matches.opponent.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) AddPoint(winner scoring.Player)       {}
func (m *dummyCollector) AddGame(winner scoring.Player)        {}
func (m *dummyCollector) AddSet(winner scoring.Player)         {}
func (m *dummyCollector) AddFault()                            {}
func (m *dummyCollector) AddIllegalAction()                    {}
func (m *dummyCollector) CompleteEpisode(record EpisodeRecord) {}

type multiCollector []Collector

// Tee fans every event out to all collectors.
func Tee(collectors ...Collector) Collector {
	return multiCollector(collectors)
}

func (m multiCollector) AddPoint(winner scoring.Player) {
	for _, c := range m {
		c.AddPoint(winner)
	}
}

func (m multiCollector) AddGame(winner scoring.Player) {
	for _, c := range m {
		c.AddGame(winner)
	}
}

func (m multiCollector) AddSet(winner scoring.Player) {
	for _, c := range m {
		c.AddSet(winner)
	}
}

func (m multiCollector) AddFault() {
	for _, c := range m {
		c.AddFault()
	}
}

func (m multiCollector) AddIllegalAction() {
	for _, c := range m {
		c.AddIllegalAction()
	}
}

func (m multiCollector) CompleteEpisode(record EpisodeRecord) {
	for _, c := range m {
		c.CompleteEpisode(record)
	}
}
