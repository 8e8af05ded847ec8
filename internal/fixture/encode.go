package fixture

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

// Encode builds the YAML layout of data played in sc.
func Encode(data *timeline.SequenceData, sc scene.Spec) *File {
	f := &File{Name: data.Name, Duration: data.Duration, Scene: encodeScene(sc)}
	for _, g := range data.Groups {
		gs := GroupSpec{Name: g.Name, Target: g.Target, Director: g.Director, Folder: g.Folder}
		for _, tr := range g.Tracks {
			ts := encodeTrack(tr)
			ts.Kind = tr.Kind().String()
			ts.Name = tr.Info().Name
			ts.Disabled = tr.Info().Disabled
			gs.Tracks = append(gs.Tracks, ts)
		}
		f.Groups = append(f.Groups, gs)
	}
	return f
}

func encodeScene(sc scene.Spec) SceneSpec {
	out := SceneSpec{Flags: sc.Flags, Clips: sc.Clips}
	for _, e := range sc.Entities {
		es := EntitySpec{
			Name:     e.Name,
			Position: nonZero(e.Position[:]),
			Rotation: nonZero(rotValue(e.Rotation)),
			Scale:    nonZero(e.Scale[:]),
			Parent:   e.Parent,
			Hidden:   e.Hidden,
			Active:   e.Active,
		}
		if e.Light != nil {
			es.Light = &LightSpec{Intensity: e.Light.Intensity, Radius: e.Light.Radius, Color: e.Light.Color[:]}
		}
		if e.Material != nil {
			es.Material = &MaterialSpec{Tint: e.Material.Tint[:], Offset: nonZero(e.Material.Offset[:]), Opacity: e.Material.Opacity}
		}
		out.Entities = append(out.Entities, es)
	}
	return out
}

func encodeTrack(t timeline.Track) TrackSpec {
	var ts TrackSpec
	switch tr := t.(type) {
	case *timeline.MoveTrack:
		ts.Mode = tr.KeyMode.String()
		ts.LookAt = tr.LookAt
		if tr.Frame == timeline.FrameRelativeToInitial {
			ts.Frame = "relative"
		}
		for i := range tr.NumKeys() {
			k := KeySpec{
				Time: tr.KeyTime(i),
				Pos:  tr.Pos.Keys[i].Value[:],
				Rot:  nonZero(rotValue(xform.FromEuler(tr.Euler.Keys[i].Value))),
			}
			if m := tr.Pos.Keys[i].Mode; m != tr.KeyMode {
				k.Mode = m.String()
			}
			if i < len(tr.Lookup) {
				k.Lookup = tr.Lookup[i].Group
			}
			ts.Keys = append(ts.Keys, k)
		}
	case *timeline.FloatPropTrack:
		ts.Property, ts.Mode = tr.Property, tr.KeyMode.String()
		ts.Keys = channelKeys(&tr.Channel, func(v curve.Scalar) Value { return Value{float64(v)} })
	case *timeline.VectorPropTrack:
		ts.Property, ts.Mode = tr.Property, tr.KeyMode.String()
		ts.Keys = channelKeys(&tr.Channel, func(v mgl64.Vec3) Value { return v[:] })
	case *timeline.ColorPropTrack:
		ts.Property, ts.Mode = tr.Property, tr.KeyMode.String()
		ts.Keys = channelKeys(&tr.Channel, func(v mgl64.Vec4) Value { return v[:] })
	case *timeline.FadeTrack:
		ts.Keys = channelKeys(&tr.Channel, func(v curve.Scalar) Value { return Value{float64(v)} })
	case *timeline.SlomoTrack:
		ts.Keys = channelKeys(&tr.Channel, func(v curve.Scalar) Value { return Value{float64(v)} })
	case *timeline.AudioMasterTrack:
		ts.Keys = channelKeys(&tr.Channel, func(v mgl64.Vec2) Value { return v[:] })
	case *timeline.ToggleTrack:
		ts.Firing = encodeFiring(tr.Firing)
		for _, k := range tr.Keys {
			ts.Keys = append(ts.Keys, KeySpec{Time: k.Time, Action: k.Action.String()})
		}
	case *timeline.VisibilityTrack:
		ts.Firing = encodeFiring(tr.Firing)
		for _, k := range tr.Keys {
			ks := KeySpec{Time: k.Time, Action: k.Action.String()}
			switch k.Condition.Kind {
			case timeline.IfFlag:
				ks.If = k.Condition.Flag
			case timeline.UnlessFlag:
				ks.Unless = k.Condition.Flag
			}
			ts.Keys = append(ts.Keys, ks)
		}
	case *timeline.EventTrack:
		ts.Firing = encodeFiring(tr.Firing)
		for _, k := range tr.Keys {
			ts.Keys = append(ts.Keys, KeySpec{Time: k.Time, Event: k.Name})
		}
	case *timeline.SoundTrack:
		ts.PlayOnReverse, ts.ContinueOnEnd = tr.PlayOnReverse, tr.ContinueOnEnd
		for _, k := range tr.Keys {
			ts.Keys = append(ts.Keys, KeySpec{Time: k.Time, Clip: k.Clip, Volume: notOne(k.Volume), Pitch: notOne(k.Pitch)})
		}
	case *timeline.AnimTrack:
		ts.Slot, ts.SkipNotifies = tr.Slot, tr.SkipNotifies
		for _, k := range tr.Keys {
			ts.Keys = append(ts.Keys, KeySpec{
				Time: k.Time, Clip: k.Clip, Start: k.StartOffset, End: k.EndOffset,
				Rate: k.PlayRate, Loop: k.Looping, Reverse: k.Reverse,
			})
		}
		for _, k := range tr.Weight.Keys {
			ts.Weights = append(ts.Weights, KeySpec{Time: k.Time, Value: Value{float64(k.Value)}})
		}
	case *timeline.DirectorTrack:
		for _, c := range tr.Cuts {
			ts.Keys = append(ts.Keys, KeySpec{Time: c.Time, Target: c.Target, Transition: c.Transition, SkipCameraReset: c.SkipCameraReset})
		}
	}
	return ts
}

func channelKeys[T curve.Value[T]](ch *timeline.Channel[T], conv func(T) Value) []KeySpec {
	out := make([]KeySpec, 0, ch.NumKeys())
	for _, k := range ch.Curve.Keys {
		ks := KeySpec{Time: k.Time, Value: conv(k.Value)}
		if k.Mode != ch.KeyMode {
			ks.Mode = k.Mode.String()
		}
		out = append(out, ks)
	}
	return out
}

func encodeFiring(f timeline.Firing) *FiringSpec {
	if f == timeline.DefaultFiring() {
		return nil
	}
	return &FiringSpec{
		Forwards:        f.FireWhenForwards,
		Backwards:       f.FireWhenBackwards,
		Jumping:         f.FireWhenJumpingForwards,
		InvertOnReverse: f.InvertOnReverse,
	}
}

func rotValue(r xform.Rotator) []float64 {
	return []float64{r.Pitch, r.Yaw, r.Roll}
}

func nonZero(v []float64) Value {
	for _, x := range v {
		if x != 0 {
			return v
		}
	}
	return nil
}

func notOne(v float64) *float64 {
	if v == 1 {
		return nil
	}
	return &v
}
