package sequencer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
)

// bindProp saves the property's current value and returns the accessors
// the track instance drives it through.
func bindProp[T curve.Value[T], V any](tr *timeline.PropTrack[T], p host.Property[V], conv func(T) V) propState {
	saved := p.Get()
	return propState{
		apply: func(t float64) {
			if tr.NumKeys() == 0 {
				return
			}
			var zero T
			p.Set(conv(tr.Curve.Eval(t, zero)))
		},
		restore: func() { p.Set(saved) },
	}
}

func (s *Sequencer) resolver(gi *GroupInstance, property string) (host.PropertyResolver, bool) {
	if gi.actor == nil {
		return nil, false
	}
	r, ok := gi.actor.(host.PropertyResolver)
	if !ok {
		s.log.Warn("entity cannot expose properties", "group", gi.group.Name, "property", property)
	}
	return r, ok
}

func (s *Sequencer) unresolved(gi *GroupInstance, property string) propState {
	s.log.Warn("property not found", "group", gi.group.Name, "property", property)
	return propState{}
}

func bindFloat(s *Sequencer, gi *GroupInstance, tr *timeline.FloatPropTrack) propState {
	r, ok := s.resolver(gi, tr.Property)
	if !ok {
		return propState{}
	}
	p, ok := r.ResolveFloat(tr.Property)
	if !ok {
		return s.unresolved(gi, tr.Property)
	}
	return bindProp(tr, p, func(v curve.Scalar) float64 { return float64(v) })
}

func bindVector(s *Sequencer, gi *GroupInstance, tr *timeline.VectorPropTrack) propState {
	r, ok := s.resolver(gi, tr.Property)
	if !ok {
		return propState{}
	}
	p, ok := r.ResolveVector(tr.Property)
	if !ok {
		return s.unresolved(gi, tr.Property)
	}
	return bindProp(tr, p, func(v mgl64.Vec3) mgl64.Vec3 { return v })
}

func bindColor(s *Sequencer, gi *GroupInstance, tr *timeline.ColorPropTrack) propState {
	r, ok := s.resolver(gi, tr.Property)
	if !ok {
		return propState{}
	}
	p, ok := r.ResolveColor(tr.Property)
	if !ok {
		return s.unresolved(gi, tr.Property)
	}
	return bindProp(tr, p, func(v mgl64.Vec4) mgl64.Vec4 { return v })
}

func (s *Sequencer) updateToggle(gi *GroupInstance, ti *TrackInstance, tr *timeline.ToggleTrack, u step) {
	act, ok := gi.actor.(host.Activatable)
	if !ok {
		return
	}

	if u.preview {
		for i := len(tr.Keys) - 1; i >= 0; i-- {
			if k := tr.Keys[i]; k.Time <= u.t && k.Action != timeline.ToggleTrigger {
				act.SetActive(k.Action == timeline.ToggleOn)
				return
			}
		}
		return
	}

	states, triggers := s.firing(tr.Firing, u)
	if !states && !triggers {
		return
	}
	var (
		on      bool
		changed bool
	)
	for _, i := range s.crossed(tr, ti.lastPos, u) {
		k := tr.Keys[i]
		if k.Action == timeline.ToggleTrigger {
			if triggers {
				act.Trigger()
			}
			continue
		}
		if !states {
			continue
		}
		on = k.Action == timeline.ToggleOn
		if u.reversed && tr.InvertOnReverse {
			on = !on
		}
		changed = true
	}
	if changed {
		act.SetActive(on)
	}
}

func (s *Sequencer) flagSource(gi *GroupInstance) func(string) bool {
	if s.conditions != nil {
		return s.conditions.Flag
	}
	if c, ok := gi.actor.(host.ConditionSource); ok {
		return c.Flag
	}
	return nil
}

func (s *Sequencer) updateVisibility(gi *GroupInstance, ti *TrackInstance, tr *timeline.VisibilityTrack, u step) {
	vis, ok := gi.actor.(host.Visible)
	if !ok {
		return
	}
	flag := s.flagSource(gi)

	if u.preview {
		for i := len(tr.Keys) - 1; i >= 0; i-- {
			k := tr.Keys[i]
			if k.Time <= u.t && k.Action != timeline.Toggle && k.Condition.Holds(flag) {
				vis.SetVisible(k.Action == timeline.Show)
				return
			}
		}
		return
	}

	states, triggers := s.firing(tr.Firing, u)
	if !states && !triggers {
		return
	}
	visible := vis.IsVisible()
	changed := false
	for _, i := range s.crossed(tr, ti.lastPos, u) {
		k := tr.Keys[i]
		if !k.Condition.Holds(flag) {
			continue
		}
		switch {
		case k.Action == timeline.Toggle:
			if !triggers {
				continue
			}
			visible = !visible
		case states:
			visible = k.Action == timeline.Show
			if u.reversed && tr.InvertOnReverse {
				visible = !visible
			}
		default:
			continue
		}
		changed = true
	}
	if changed {
		vis.SetVisible(visible)
	}
}

func (s *Sequencer) updateEvents(gi *GroupInstance, ti *TrackInstance, tr *timeline.EventTrack, u step) {
	if len(s.sinks) == 0 {
		return
	}
	if states, _ := s.firing(tr.Firing, u); !states {
		return
	}
	for _, i := range s.crossed(tr, ti.lastPos, u) {
		k := tr.Keys[i]
		ev := Fired{Group: gi.group.Name, Track: tr.Name, Name: k.Name, Time: k.Time}
		s.log.Debug("event", "group", ev.Group, "name", ev.Name, "time", ev.Time)
		for _, sink := range s.sinks {
			sink(ev)
		}
	}
}
