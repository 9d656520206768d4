package shot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownType      = errors.New("unknown shot type")
	ErrUnknownDirection = errors.New("unknown shot direction")
)

var typeAliases = map[string]Type{
	"@": Error, // unforced error
	"#": Error, // forced error
	"*": Winner,
}

// ParseType maps a charting code to a Type.
func ParseType(s string) (Type, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	if t, ok := typeAliases[code]; ok {
		return t, nil
	}
	for t, c := range codes {
		if c == code {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// ParseDirection maps a direction label to a Direction. Serve zones charted
// as direction_4..direction_6 map onto 1..3.
func ParseDirection(s string) (Direction, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	switch label {
	case "", "0", "unknown", "direction_0":
		return NoDirection, nil
	}
	label = strings.TrimPrefix(label, "direction_")
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
	if n >= 4 && n <= 6 {
		n -= 3
	}
	d := Direction(n)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
	return d, nil
}

// Parse builds a normalized Event from its charting labels. Ordinary shots
// need a direction in 1..3; markers ignore theirs.
func Parse(shotType, direction string) (Event, error) {
	t, err := ParseType(shotType)
	if err != nil {
		return Event{}, err
	}
	if t.IsMarker() {
		return Event{Type: t}, nil
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return Event{}, err
	}
	if d == NoDirection {
		return Event{}, fmt.Errorf("%w: %s needs a direction, got %q", ErrUnknownDirection, t, direction)
	}
	return Event{Type: t, Direction: d}, nil
}
