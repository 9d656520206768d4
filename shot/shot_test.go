package shot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	t.Run("enumerating canonical events", func(t *testing.T) {
		all := Events()

		require.Len(t, all, NumEvents, "Should enumerate every canonical event")
		require.Equal(t, 56, NumEvents, "Should cover serve and 17 strokes in 3 directions plus 2 markers")
		for i, e := range all {
			require.True(t, e.Valid(), "Event %s should be canonical", e)
			require.Equal(t, i, e.Index(), "Index should match enumeration order for %s", e)
		}
	})

	t.Run("counting strokes", func(t *testing.T) {
		require.Len(t, Strokes(), 17, "Should have 17 stroke codes")
	})

	t.Run("indexing non-canonical events", func(t *testing.T) {
		require.Equal(t, -1, Event{Type: Forehand}.Index(), "Stroke without direction is not canonical")
		require.Equal(t, -1, Event{Type: Error, Direction: Zone2}.Index(), "Marker with direction is not canonical")
	})
}

func TestNormalize(t *testing.T) {
	require.Equal(t, Event{Type: Error}, Event{Type: Error, Direction: Zone3}.Normalize(),
		"Error direction should collapse into the no-direction bucket")
	require.Equal(t, Event{Type: Winner}, New(Winner, Zone1),
		"Winner direction should collapse into the no-direction bucket")
	require.Equal(t, Event{Type: Forehand, Direction: Zone2}, New(Forehand, Zone2),
		"Ordinary shots keep their direction")
}

func TestCanFollow(t *testing.T) {
	serve := New(Serve, Zone1)
	stroke := New(Backhand, Zone3)
	errorMarker := New(Error, NoDirection)
	winner := New(Winner, NoDirection)

	cases := []struct {
		name string
		prev Event
		next Event
		want bool
	}{
		{"serve after error", errorMarker, serve, true},
		{"serve after winner", winner, serve, true},
		{"serve after serve", serve, New(Serve, Zone2), false},
		{"serve after stroke", stroke, serve, false},
		{"error after error", errorMarker, errorMarker, false},
		{"winner after error", errorMarker, winner, false},
		{"error after winner", winner, errorMarker, false},
		{"stroke after error", errorMarker, stroke, false},
		{"stroke after winner", winner, stroke, false},
		{"stroke after serve", serve, stroke, true},
		{"stroke after stroke", stroke, New(Forehand, Zone1), true},
		{"error after serve", serve, errorMarker, true},
		{"winner after stroke", stroke, winner, true},
		{"directional error after stroke", stroke, Event{Type: Error, Direction: Zone2}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, CanFollow(c.prev, c.next))
		})
	}
}

func TestSuccessors(t *testing.T) {
	t.Run("after a marker only serves are legal", func(t *testing.T) {
		got := Successors(New(Winner, NoDirection))

		require.Equal(t, []Event{New(Serve, Zone1), New(Serve, Zone2), New(Serve, Zone3)}, got)
	})

	t.Run("after a shot every stroke and both markers are legal", func(t *testing.T) {
		got := Successors(New(Serve, Zone2))

		require.Len(t, got, 17*3+2, "Should list strokes and markers")
		require.Equal(t, New(Error, NoDirection), got[len(got)-2])
		require.Equal(t, New(Winner, NoDirection), got[len(got)-1])
	})
}

func TestPlayableActions(t *testing.T) {
	t.Run("agents never choose markers", func(t *testing.T) {
		for _, action := range PlayableActions(New(Forehand, Zone1)) {
			require.False(t, action.IsMarker(), "Action %s should not be a marker", action)
		}
		require.False(t, IsPlayable(New(Forehand, Zone1), New(Winner, NoDirection)))
	})

	t.Run("agents serve to start a point", func(t *testing.T) {
		got := PlayableActions(New(Error, NoDirection))

		require.Len(t, got, 3)
		for _, action := range got {
			require.Equal(t, Serve, action.Type)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("parsing stroke codes", func(t *testing.T) {
		e, err := Parse("f", "2")
		require.NoError(t, err)
		require.Equal(t, New(Forehand, Zone2), e)
	})

	t.Run("parsing error aliases", func(t *testing.T) {
		for _, code := range []string{"@", "#", "error"} {
			e, err := Parse(code, "3")
			require.NoError(t, err)
			require.Equal(t, New(Error, NoDirection), e, "Code %q should be an error with no direction", code)
		}
	})

	t.Run("mapping serve zones", func(t *testing.T) {
		e, err := Parse("serve", "direction_6")
		require.NoError(t, err)
		require.Equal(t, New(Serve, Zone3), e)
	})

	t.Run("rejecting unknown vocabulary", func(t *testing.T) {
		_, err := Parse("q", "1")
		require.ErrorIs(t, err, ErrUnknownType)

		_, err = Parse("f", "7")
		require.ErrorIs(t, err, ErrUnknownDirection)

		_, err = Parse("f", "unknown")
		require.ErrorIs(t, err, ErrUnknownDirection, "Ordinary shots need a direction")
	})
}
