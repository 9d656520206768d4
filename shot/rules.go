package shot

// CanFollow reports whether next may immediately follow prev in a rally:
//   - a serve only follows an error or winner (it starts a new point)
//   - an error or winner never follows another error or winner
//   - a stroke never follows an error or winner
//   - a serve never follows a serve
//
// Both events are compared in normalized form.
func CanFollow(prev, next Event) bool {
	prev, next = prev.Normalize(), next.Normalize()
	if !prev.Valid() || !next.Valid() {
		return false
	}
	if prev.IsMarker() {
		return next.Type == Serve
	}
	return next.Type != Serve
}

// Successors returns the legal targets of prev in the order of Events().
func Successors(prev Event) []Event {
	var out []Event
	for _, next := range events {
		if CanFollow(prev, next) {
			out = append(out, next)
		}
	}
	return out
}

// IsPlayable reports whether an agent may choose action after prev. Agents
// strike serves and strokes; errors and winners are outcomes, never choices.
func IsPlayable(prev, action Event) bool {
	if action.IsMarker() || !action.Direction.Valid() {
		return false
	}
	return CanFollow(prev, action)
}

// PlayableActions returns every action an agent may choose after prev.
func PlayableActions(prev Event) []Event {
	var out []Event
	for _, action := range events {
		if IsPlayable(prev, action) {
			out = append(out, action)
		}
	}
	return out
}
