package bake

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/sequencer"
	"github.com/san-kum/seqsim/internal/xform"
)

// Sample is one entity's world pose at one step.
type Sample struct {
	Entity   string
	Position mgl64.Vec3
	Rotation xform.Rotator
	Visible  bool
}

// Frame is the scene after one step. Fired holds the events raised during
// the step that produced it.
type Frame struct {
	Time     float64
	Position float64
	Samples  []Sample
	View     string
	Fade     float64
	Fired    []sequencer.Fired
}

// Sample returns the named entity's sample.
func (f Frame) Sample(entity string) (Sample, bool) {
	for _, s := range f.Samples {
		if s.Entity == entity {
			return s, true
		}
	}
	return Sample{}, false
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt       float64
	Duration float64
	Settings sequencer.Settings
}

type Result struct {
	Sequence   string
	Frames     []Frame
	Events     []sequencer.Fired
	Metrics    map[string]float64
	Loops      int
	StepsTaken int
}

// Entities lists the sampled entity names in capture order.
func (r *Result) Entities() []string {
	if len(r.Frames) == 0 {
		return nil
	}
	out := make([]string, len(r.Frames[0].Samples))
	for i, s := range r.Frames[0].Samples {
		out[i] = s.Entity
	}
	return out
}

// Track returns the named entity's position at every frame.
func (r *Result) Track(entity string) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(r.Frames))
	for _, f := range r.Frames {
		if s, ok := f.Sample(entity); ok {
			out = append(out, s.Position)
		}
	}
	return out
}
