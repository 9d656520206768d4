package scoring

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidMoment = errors.New("invalid match moment")

// SetMoment is a completed set in a Moment.
type SetMoment struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// Moment is a flat, serializable snapshot of a match score.
type Moment struct {
	Sets          []SetMoment `json:"sets"`
	CurrentGameP1 string      `json:"current_game_p1"`
	CurrentGameP2 string      `json:"current_game_p2"`
	CurrentSetP1  int         `json:"current_set_p1"`
	CurrentSetP2  int         `json:"current_set_p2"`
	MatchScoreP1  int         `json:"match_score_p1"`
	MatchScoreP2  int         `json:"match_score_p2"`
	Server        Player      `json:"server"`
}

// Snapshot captures the current score.
func (m *Match) Snapshot() Moment {
	labels := m.Game.Labels()
	moment := Moment{
		CurrentGameP1: labels[0],
		CurrentGameP2: labels[1],
		CurrentSetP1:  m.Games[0],
		CurrentSetP2:  m.Games[1],
		MatchScoreP1:  m.SetsWon[0],
		MatchScoreP2:  m.SetsWon[1],
		Server:        m.Server,
	}
	for _, set := range m.Sets {
		moment.Sets = append(moment.Sets, SetMoment{P1: set.Games[0], P2: set.Games[1]})
	}
	return moment
}

// Restore rebuilds a match from a snapshot. A current set at the tiebreak
// score means the game in progress is a tiebreak.
func Restore(moment Moment, options ...Option) (*Match, error) {
	if moment.Server != Player1 && moment.Server != Player2 {
		return nil, fmt.Errorf("%w: server %v", ErrInvalidMoment, moment.Server)
	}
	m := NewMatch(moment.Server, options...)

	if moment.CurrentSetP1 < 0 || moment.CurrentSetP2 < 0 || moment.MatchScoreP1 < 0 || moment.MatchScoreP2 < 0 {
		return nil, fmt.Errorf("%w: negative score", ErrInvalidMoment)
	}
	if len(moment.Sets) != moment.MatchScoreP1+moment.MatchScoreP2 {
		return nil, fmt.Errorf("%w: %d sets recorded for a %d-%d match score",
			ErrInvalidMoment, len(moment.Sets), moment.MatchScoreP1, moment.MatchScoreP2)
	}
	if moment.MatchScoreP1 > m.Rules.SetsToWin || moment.MatchScoreP2 > m.Rules.SetsToWin ||
		(moment.MatchScoreP1 == m.Rules.SetsToWin && moment.MatchScoreP2 == m.Rules.SetsToWin) {
		return nil, fmt.Errorf("%w: match score %d-%d", ErrInvalidMoment, moment.MatchScoreP1, moment.MatchScoreP2)
	}

	for _, set := range moment.Sets {
		winner := Player1
		if set.P2 > set.P1 {
			winner = Player2
		}
		m.Sets = append(m.Sets, SetResult{Games: [2]int{set.P1, set.P2}, Winner: winner})
	}
	m.Games = [2]int{moment.CurrentSetP1, moment.CurrentSetP2}
	m.SetsWon = [2]int{moment.MatchScoreP1, moment.MatchScoreP2}
	switch {
	case m.SetsWon[0] == m.Rules.SetsToWin:
		m.Winner = Player1
	case m.SetsWon[1] == m.Rules.SetsToWin:
		m.Winner = Player2
	}

	if m.Games[0] == m.Rules.TiebreakAt && m.Games[1] == m.Rules.TiebreakAt {
		p1, err1 := strconv.Atoi(moment.CurrentGameP1)
		p2, err2 := strconv.Atoi(moment.CurrentGameP2)
		if err1 != nil || err2 != nil || p1 < 0 || p2 < 0 {
			return nil, fmt.Errorf("%w: tiebreak score %q-%q", ErrInvalidMoment, moment.CurrentGameP1, moment.CurrentGameP2)
		}
		m.Game = Subgame{Kind: TiebreakGame, Tiebreak: [2]int{p1, p2}}
		return m, nil
	}

	p1, err := ParsePoint(moment.CurrentGameP1)
	if err != nil {
		return nil, err
	}
	p2, err := ParsePoint(moment.CurrentGameP2)
	if err != nil {
		return nil, err
	}
	if (p1 == Advantage && p2 != Forty) || (p2 == Advantage && p1 != Forty) {
		return nil, fmt.Errorf("%w: game score %v-%v", ErrInvalidMoment, p1, p2)
	}
	m.Game = Subgame{Points: [2]Point{p1, p2}}
	return m, nil
}
