package catalog

import (
	"fmt"
	"sort"

	"github.com/san-kum/seqsim/internal/fixture"
	"github.com/san-kum/seqsim/internal/timeline"
)

type entry struct {
	desc  string
	build func() *fixture.Fixture
}

// Registry maps names to built-in sequences. Each Get builds a fresh copy.
type Registry struct {
	sequences map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{sequences: make(map[string]entry)}

	r.sequences["linear"] = entry{"a cube slides 10 units in 4 seconds", Linear}
	r.sequences["flyby"] = entry{"a parented drone passes a blinking beacon under director cuts", Flyby}
	r.sequences["cuts"] = entry{"the director cuts between three cameras with a fade out", Cuts}
	r.sequences["orbit"] = entry{"a probe orbits a planet relative to its start with a tracking camera", Orbit}
	r.sequences["events"] = entry{"markers, toggles and sounds for event tracing", Events}

	return r
}

func (r *Registry) Register(name, desc string, build func() *fixture.Fixture) {
	r.sequences[name] = entry{desc, build}
}

func (r *Registry) Get(name string) (*fixture.Fixture, error) {
	e, ok := r.sequences[name]
	if !ok {
		if s := timeline.Suggest(name, r.List()); s != "" {
			return nil, fmt.Errorf("unknown sequence: %s (did you mean %s?)", name, s)
		}
		return nil, fmt.Errorf("unknown sequence: %s", name)
	}
	return e.build(), nil
}

func (r *Registry) Describe(name string) string {
	return r.sequences[name].desc
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.sequences))
	for name := range r.sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
