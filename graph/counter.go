package graph

import (
	"sort"

	"tennis/shot"
)

type transition struct {
	src shot.Event
	dst shot.Event
}

// Counter tallies transitions from structured rallies into count records.
// Transitions that break the adjacency rules (a marker after a marker, a
// serve in mid-rally, a stroke straight after a marker) are not counted.
type Counter struct {
	counts map[transition]int64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[transition]int64)}
}

// Add counts every consecutive pair of a rally and returns how many were kept.
// To count the opening serve, start the rally with the marker that ended the previous point.
func (c *Counter) Add(rally []shot.Event) int {
	kept := 0
	for i := 1; i < len(rally); i++ {
		src, dst := rally[i-1].Normalize(), rally[i].Normalize()
		if !shot.CanFollow(src, dst) {
			continue
		}
		c.counts[transition{src: src, dst: dst}]++
		kept++
	}
	return kept
}

// Records returns the tallies ordered by source then target.
func (c *Counter) Records() []Record {
	keys := make([]transition, 0, len(c.counts))
	for key := range c.counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].src != keys[j].src {
			return keys[i].src.Index() < keys[j].src.Index()
		}
		return keys[i].dst.Index() < keys[j].dst.Index()
	})

	records := make([]Record, len(keys))
	for i, key := range keys {
		records[i] = Record{
			LastType:      key.src.Type.String(),
			LastDirection: key.src.Direction.String(),
			Type:          key.dst.Type.String(),
			Direction:     key.dst.Direction.String(),
			Count:         c.counts[key],
		}
	}
	return records
}
