package scoring

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Rules holds the match format.
type Rules struct {
	SetsToWin      int // Sets needed to win the match
	GamesPerSet    int // Games needed to win a set with a two-game lead
	TiebreakAt     int // Games each at which the set is decided by a tiebreak
	TiebreakPoints int // Points needed to win a tiebreak
	TiebreakMargin int // Lead needed to win a tiebreak
}

// StandardRules returns a one-set match with a tiebreak at 6-6.
func StandardRules() Rules {
	return Rules{
		SetsToWin:      1,
		GamesPerSet:    6,
		TiebreakAt:     6,
		TiebreakPoints: 7,
		TiebreakMargin: 2,
	}
}

type Option func(rules *Rules)

// WithSetsToWin sets how many sets decide the match, e.g. 2 for best of three.
func WithSetsToWin(sets int) Option {
	return func(rules *Rules) {
		if sets > 0 {
			rules.SetsToWin = sets
		}
	}
}

// SetResult is a completed set.
type SetResult struct {
	Games    [2]int
	Tiebreak [2]int // Zero unless the set went to a tiebreak
	Winner   Player
}

// PointResult reports the score after a point and which units it decided.
type PointResult struct {
	GameScore   [2]string
	SetScore    [2]int
	GameWinner  Player
	SetWinner   Player
	MatchWinner Player
}

// Match is the score of a match in progress. It is mutated only by RecordPoint.
type Match struct {
	Rules   Rules
	Sets    []SetResult // Completed sets
	Games   [2]int      // Games in the current set
	Game    Subgame     // Game or tiebreak in progress
	SetsWon [2]int
	Server  Player
	Winner  Player // NoPlayer until the match is decided
}

// NewMatch starts a match at 0-0 with the given server.
func NewMatch(server Player, options ...Option) *Match {
	server.side() // Validate
	rules := StandardRules()
	for _, option := range options {
		option(&rules)
	}
	return &Match{
		Rules:  rules,
		Server: server,
	}
}

// IsOver reports whether the match has been decided.
func (m *Match) IsOver() bool {
	return m.Winner != NoPlayer
}

// RecordPoint awards a point to p and advances the game, set and match.
// It panics on an invalid player or when the match is already decided.
func (m *Match) RecordPoint(p Player) PointResult {
	side := p.side()
	if m.IsOver() {
		panic(fmt.Sprintf("point recorded after %v won the match", m.Winner))
	}

	result := PointResult{}
	if m.Game.score(side, m.Rules) {
		result.GameWinner = p
		result.SetWinner = m.completeGame(p)
		if result.SetWinner != NoPlayer && m.SetsWon[side] >= m.Rules.SetsToWin {
			m.Winner = p
			result.MatchWinner = p
			log.Debug().Str("winner", p.String()).Ints("sets", m.SetsWon[:]).Msg("match decided")
		}
	}

	result.GameScore = m.Game.Labels()
	result.SetScore = m.Games
	return result
}

// completeGame credits a game to p, flips the server and returns the set
// winner if the game decided the set.
func (m *Match) completeGame(p Player) Player {
	side := p.side()
	finished := m.Game
	m.Games[side]++
	m.Server = m.Server.Other()
	m.Game = Subgame{}

	won, lost := m.Games[side], m.Games[1-side]
	setOver := finished.Kind == TiebreakGame ||
		(won >= m.Rules.GamesPerSet && won-lost >= 2) ||
		won > m.Rules.GamesPerSet
	if setOver {
		set := SetResult{Games: m.Games, Winner: p}
		if finished.Kind == TiebreakGame {
			set.Tiebreak = finished.Tiebreak
		}
		m.Sets = append(m.Sets, set)
		m.SetsWon[side]++
		m.Games = [2]int{}
		log.Debug().Str("winner", p.String()).Ints("games", set.Games[:]).Msg("set decided")
		return p
	}

	if m.Games[0] == m.Rules.TiebreakAt && m.Games[1] == m.Rules.TiebreakAt {
		m.Game.Kind = TiebreakGame
	}
	return NoPlayer
}
