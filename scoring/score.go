package scoring

import "fmt"

// Player identifies one side of the match.
type Player int

const (
	NoPlayer Player = iota
	Player1
	Player2
)

func (p Player) String() string {
	switch p {
	case NoPlayer:
		return "none"
	case Player1:
		return "Player1"
	case Player2:
		return "Player2"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// Other returns the opponent of p. It panics on an invalid player.
func (p Player) Other() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	panic(fmt.Sprintf("invalid player: %v", p))
}

// side returns the array slot of p. It panics on an invalid player.
func (p Player) side() int {
	switch p {
	case Player1:
		return 0
	case Player2:
		return 1
	}
	panic(fmt.Sprintf("invalid player: %v", p))
}

// Point is a position on the standard game ladder.
type Point int

const (
	Love Point = iota
	Fifteen
	Thirty
	Forty
	Advantage
)

var pointLabels = [...]string{"0", "15", "30", "40", "AD"}

func (p Point) String() string {
	if p < Love || p > Advantage {
		return fmt.Sprintf("Point(%d)", int(p))
	}
	return pointLabels[p]
}

// ParsePoint maps a game score label ("0", "15", "30", "40", "AD") to a Point.
func ParsePoint(label string) (Point, error) {
	for i, l := range pointLabels {
		if l == label {
			return Point(i), nil
		}
	}
	return 0, fmt.Errorf("%w: game score %q", ErrInvalidMoment, label)
}

// SubgameKind tags which scoring rule the active sub-game follows.
type SubgameKind int

const (
	StandardGame SubgameKind = iota
	TiebreakGame
)

func (k SubgameKind) String() string {
	if k == TiebreakGame {
		return "tiebreak"
	}
	return "game"
}

// Subgame is the game in progress: a standard game scored on the Points
// ladder, or a tiebreak scored by counting points.
type Subgame struct {
	Kind     SubgameKind
	Points   [2]Point
	Tiebreak [2]int
}

// Labels returns both players' scores as displayed, e.g. "40"/"AD" or "5"/"3".
func (g Subgame) Labels() [2]string {
	if g.Kind == TiebreakGame {
		return [2]string{fmt.Sprint(g.Tiebreak[0]), fmt.Sprint(g.Tiebreak[1])}
	}
	return [2]string{g.Points[0].String(), g.Points[1].String()}
}

// score applies one point won by side and returns whether that side won the game.
func (g *Subgame) score(side int, rules Rules) bool {
	switch g.Kind {
	case TiebreakGame:
		return g.scoreTiebreak(side, rules)
	default:
		return g.scoreStandard(side)
	}
}

func (g *Subgame) scoreStandard(side int) bool {
	other := 1 - side
	switch {
	case g.Points[other] == Advantage:
		// Deuce again
		g.Points[other] = Forty
		return false
	case g.Points[side] == Advantage:
		return true
	case g.Points[side] == Forty && g.Points[other] == Forty:
		g.Points[side] = Advantage
		return false
	case g.Points[side] == Forty:
		return true
	default:
		g.Points[side]++
		return false
	}
}

func (g *Subgame) scoreTiebreak(side int, rules Rules) bool {
	g.Tiebreak[side]++
	lead := g.Tiebreak[side] - g.Tiebreak[1-side]
	return g.Tiebreak[side] >= rules.TiebreakPoints && lead >= rules.TiebreakMargin
}
