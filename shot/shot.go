package shot

import "fmt"

// Type represents the kind of shot in a rally, or one of the outcome markers.
type Type int

const (
	Serve Type = iota
	Forehand
	Backhand
	ForehandSlice
	BackhandSlice
	ForehandVolley
	BackhandVolley
	Overhead
	BackhandOverhead
	ForehandDrop
	BackhandDrop
	ForehandLob
	BackhandLob
	ForehandHalfVolley
	BackhandHalfVolley
	ForehandSwingingVolley
	BackhandSwingingVolley
	Trick
	Error
	Winner
)

// NumTypes is the size of the shot type vocabulary.
const NumTypes = int(Winner) + 1

// Charting codes, indexed by Type.
var codes = [NumTypes]string{
	Serve:                  "serve",
	Forehand:               "f",
	Backhand:               "b",
	ForehandSlice:          "r",
	BackhandSlice:          "s",
	ForehandVolley:         "v",
	BackhandVolley:         "z",
	Overhead:               "o",
	BackhandOverhead:       "p",
	ForehandDrop:           "u",
	BackhandDrop:           "y",
	ForehandLob:            "l",
	BackhandLob:            "m",
	ForehandHalfVolley:     "h",
	BackhandHalfVolley:     "i",
	ForehandSwingingVolley: "j",
	BackhandSwingingVolley: "k",
	Trick:                  "t",
	Error:                  "error",
	Winner:                 "winner",
}

func (t Type) String() string {
	if t < 0 || int(t) >= NumTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return codes[t]
}

// IsMarker reports whether t is an outcome marker (error or winner) rather than a struck ball.
func (t Type) IsMarker() bool {
	return t == Error || t == Winner
}

// IsStroke reports whether t is an ordinary rally stroke.
func (t Type) IsStroke() bool {
	return t > Serve && t < Error
}

// Strokes returns the 17 rally stroke types in vocabulary order.
func Strokes() []Type {
	strokes := make([]Type, 0, int(Error)-int(Forehand))
	for t := Forehand; t < Error; t++ {
		strokes = append(strokes, t)
	}
	return strokes
}

// Direction is the coarse court zone a shot is aimed at.
type Direction int

const (
	NoDirection Direction = iota // canonical bucket for error and winner markers
	Zone1
	Zone2
	Zone3
)

// Directions lists the zones an ordinary shot can take.
var Directions = [...]Direction{Zone1, Zone2, Zone3}

func (d Direction) String() string {
	if d == NoDirection {
		return "unknown"
	}
	return fmt.Sprintf("%d", int(d))
}

// Valid reports whether d is one of the three court zones.
func (d Direction) Valid() bool {
	return d >= Zone1 && d <= Zone3
}

// Event is a single shot (or outcome marker) in a rally.
type Event struct {
	Type      Type
	Direction Direction
}

// New returns a normalized event.
func New(t Type, d Direction) Event {
	return Event{Type: t, Direction: d}.Normalize()
}

// Normalize collapses the direction of error and winner markers into NoDirection.
func (e Event) Normalize() Event {
	if e.Type.IsMarker() {
		e.Direction = NoDirection
	}
	return e
}

// IsMarker reports whether e is an error or winner marker.
func (e Event) IsMarker() bool {
	return e.Type.IsMarker()
}

// Valid reports whether e is a canonical event of the vocabulary.
func (e Event) Valid() bool {
	if e.Type < 0 || int(e.Type) >= NumTypes {
		return false
	}
	if e.Type.IsMarker() {
		return e.Direction == NoDirection
	}
	return e.Direction.Valid()
}

func (e Event) String() string {
	if e.IsMarker() {
		return e.Type.String()
	}
	return e.Type.String() + e.Direction.String()
}

// NumEvents is the number of canonical events: every non-marker type in
// three directions plus the two markers.
const NumEvents = (NumTypes-2)*len(Directions) + 2

// Index returns the dense position of a canonical event in Events(), or -1.
func (e Event) Index() int {
	if !e.Valid() {
		return -1
	}
	switch e.Type {
	case Error:
		return NumEvents - 2
	case Winner:
		return NumEvents - 1
	}
	return int(e.Type)*len(Directions) + int(e.Direction) - 1
}

var events = func() []Event {
	all := make([]Event, 0, NumEvents)
	for t := Serve; t < Error; t++ {
		for _, d := range Directions {
			all = append(all, Event{Type: t, Direction: d})
		}
	}
	return append(all, Event{Type: Error}, Event{Type: Winner})
}()

// Events enumerates every canonical event in a fixed order: serves, strokes in
// vocabulary order (each in directions 1..3), then error and winner.
func Events() []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}
