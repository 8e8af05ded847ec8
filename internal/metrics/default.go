package metrics

import (
	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/timeline"
)

// Default returns the standard metric set for data: event and cut counts
// plus the path length of every group with a movement track.
func Default(data *timeline.SequenceData) []bake.Metric {
	ms := []bake.Metric{NewEventCount(""), NewCutCount()}
	for _, g := range data.Groups {
		for _, t := range g.Tracks {
			if t.Kind() == timeline.KindMove {
				ms = append(ms, NewPathLength(g.BindName()))
				break
			}
		}
	}
	return ms
}
