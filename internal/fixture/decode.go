package fixture

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

var (
	ErrValueShape = errors.New("fixture: wrong number of components")
	ErrAction     = errors.New("fixture: unknown action")
	ErrFrame      = errors.New("fixture: unknown movement frame")
)

// Fixture is a decoded file: the authored sequence and its scene.
type Fixture struct {
	Data  *timeline.SequenceData
	Scene scene.Spec
}

// Load reads, decodes and validates a fixture file.
func Load(path string) (*Fixture, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	fx, err := f.Decode()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := fx.Data.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// Decode converts the YAML layout into timeline and scene values.
func (f *File) Decode() (*Fixture, error) {
	data := &timeline.SequenceData{Name: f.Name, Duration: f.Duration}
	for _, gs := range f.Groups {
		g := &timeline.Group{Name: gs.Name, Target: gs.Target, Director: gs.Director, Folder: gs.Folder}
		for _, ts := range gs.Tracks {
			tr, err := decodeTrack(ts)
			if err != nil {
				return nil, fmt.Errorf("group %q track %q: %w", gs.Name, ts.Name, err)
			}
			tr.Info().Disabled = ts.Disabled
			g.AddTrack(tr)
		}
		data.AddGroup(g)
	}

	sc, err := f.Scene.decode()
	if err != nil {
		return nil, err
	}
	return &Fixture{Data: data, Scene: sc}, nil
}

func (s SceneSpec) decode() (scene.Spec, error) {
	out := scene.Spec{Flags: s.Flags, Clips: s.Clips}
	for _, es := range s.Entities {
		e := scene.EntitySpec{Name: es.Name, Parent: es.Parent, Hidden: es.Hidden, Active: es.Active}
		var err error
		if e.Position, err = vec3(es.Position); err != nil {
			return scene.Spec{}, fmt.Errorf("entity %q position: %w", es.Name, err)
		}
		rot, err := vec3(es.Rotation)
		if err != nil {
			return scene.Spec{}, fmt.Errorf("entity %q rotation: %w", es.Name, err)
		}
		e.Rotation = xform.Rotator{Pitch: rot[0], Yaw: rot[1], Roll: rot[2]}
		if e.Scale, err = vec3(es.Scale); err != nil {
			return scene.Spec{}, fmt.Errorf("entity %q scale: %w", es.Name, err)
		}
		if es.Light != nil {
			col, err := color(es.Light.Color)
			if err != nil {
				return scene.Spec{}, fmt.Errorf("entity %q light: %w", es.Name, err)
			}
			e.Light = &scene.Light{Intensity: es.Light.Intensity, Radius: es.Light.Radius, Color: col}
		}
		if es.Material != nil {
			tint, err := color(es.Material.Tint)
			if err != nil {
				return scene.Spec{}, fmt.Errorf("entity %q material: %w", es.Name, err)
			}
			off, err := vec3(es.Material.Offset)
			if err != nil {
				return scene.Spec{}, fmt.Errorf("entity %q material: %w", es.Name, err)
			}
			e.Material = &scene.Material{Tint: tint, Offset: off, Opacity: es.Material.Opacity}
		}
		out.Entities = append(out.Entities, e)
	}
	return out, nil
}

func decodeTrack(ts TrackSpec) (timeline.Track, error) {
	kind, err := timeline.ParseKind(ts.Kind)
	if err != nil {
		return nil, err
	}
	mode := curve.CurveAutoClamped
	if ts.Mode != "" {
		if mode, err = curve.ParseMode(ts.Mode); err != nil {
			return nil, err
		}
	}

	switch kind {
	case timeline.KindMove:
		return decodeMove(ts, mode)
	case timeline.KindFloatProp:
		tr := timeline.NewPropTrack[curve.Scalar](ts.Name, ts.Property)
		tr.KeyMode = mode
		return tr, addKeys(&tr.Channel, ts.Keys, scalar)
	case timeline.KindVectorProp:
		tr := timeline.NewPropTrack[mgl64.Vec3](ts.Name, ts.Property)
		tr.KeyMode = mode
		return tr, addKeys(&tr.Channel, ts.Keys, vec3)
	case timeline.KindColorProp:
		tr := timeline.NewPropTrack[mgl64.Vec4](ts.Name, ts.Property)
		tr.KeyMode = mode
		return tr, addKeys(&tr.Channel, ts.Keys, color)
	case timeline.KindFade:
		tr := timeline.NewFadeTrack(ts.Name)
		return tr, addKeys(&tr.Channel, ts.Keys, scalar)
	case timeline.KindSlomo:
		tr := timeline.NewSlomoTrack(ts.Name)
		return tr, addKeys(&tr.Channel, ts.Keys, scalar)
	case timeline.KindAudioMaster:
		tr := timeline.NewAudioMasterTrack(ts.Name)
		return tr, addKeys(&tr.Channel, ts.Keys, vec2)
	case timeline.KindToggle:
		return decodeToggle(ts)
	case timeline.KindVisibility:
		return decodeVisibility(ts)
	case timeline.KindEvent:
		tr := timeline.NewEventTrack(ts.Name)
		tr.Firing = firing(ts.Firing)
		for _, k := range ts.Keys {
			tr.AddEvent(k.Time, k.Event)
		}
		return tr, nil
	case timeline.KindSound:
		tr := timeline.NewSoundTrack(ts.Name)
		tr.PlayOnReverse, tr.ContinueOnEnd = ts.PlayOnReverse, ts.ContinueOnEnd
		for _, k := range ts.Keys {
			tr.AddSound(k.Time, k.Clip, orOne(k.Volume), orOne(k.Pitch))
		}
		return tr, nil
	case timeline.KindAnimControl:
		return decodeAnim(ts)
	case timeline.KindDirector:
		tr := timeline.NewDirectorTrack(ts.Name)
		for _, k := range ts.Keys {
			tr.AddCut(timeline.Cut{Time: k.Time, Target: k.Target, Transition: k.Transition, SkipCameraReset: k.SkipCameraReset})
		}
		return tr, nil
	}
	return nil, fmt.Errorf("unsupported track kind: %s", kind)
}

func decodeMove(ts TrackSpec, mode curve.Mode) (timeline.Track, error) {
	frame := timeline.FrameWorld
	switch ts.Frame {
	case "", "world":
	case "relative", "relative_to_initial":
		frame = timeline.FrameRelativeToInitial
	default:
		return nil, fmt.Errorf("%w: %q", ErrFrame, ts.Frame)
	}
	tr := timeline.NewMoveTrack(ts.Name, frame)
	tr.KeyMode = mode
	tr.LookAt = ts.LookAt

	for _, k := range ts.Keys {
		pos, err := vec3(k.Pos)
		if err != nil {
			return nil, fmt.Errorf("key at %g pos: %w", k.Time, err)
		}
		rot, err := vec3(k.Rot)
		if err != nil {
			return nil, fmt.Errorf("key at %g rot: %w", k.Time, err)
		}
		i := tr.AddKeyValue(k.Time, pos, xform.Rotator{Pitch: rot[0], Yaw: rot[1], Roll: rot[2]})
		if k.Mode != "" {
			m, err := curve.ParseMode(k.Mode)
			if err != nil {
				return nil, err
			}
			_ = tr.Pos.SetKeyMode(i, m)
			_ = tr.Euler.SetKeyMode(i, m)
		}
		if k.Lookup != "" {
			if err := tr.SetLookup(i, k.Lookup); err != nil {
				return nil, fmt.Errorf("key at %g lookup: %w", k.Time, err)
			}
		}
	}
	return tr, nil
}

func decodeToggle(ts TrackSpec) (timeline.Track, error) {
	tr := timeline.NewToggleTrack(ts.Name)
	tr.Firing = firing(ts.Firing)
	for _, k := range ts.Keys {
		var a timeline.ToggleAction
		switch k.Action {
		case "on":
			a = timeline.ToggleOn
		case "off":
			a = timeline.ToggleOff
		case "trigger":
			a = timeline.ToggleTrigger
		default:
			return nil, fmt.Errorf("%w: %q", ErrAction, k.Action)
		}
		tr.AddToggle(k.Time, a)
	}
	return tr, nil
}

func decodeVisibility(ts TrackSpec) (timeline.Track, error) {
	tr := timeline.NewVisibilityTrack(ts.Name)
	tr.Firing = firing(ts.Firing)
	for _, k := range ts.Keys {
		var a timeline.VisibilityAction
		switch k.Action {
		case "show":
			a = timeline.Show
		case "hide":
			a = timeline.Hide
		case "toggle":
			a = timeline.Toggle
		default:
			return nil, fmt.Errorf("%w: %q", ErrAction, k.Action)
		}
		var cond timeline.Condition
		switch {
		case k.If != "":
			cond = timeline.Condition{Kind: timeline.IfFlag, Flag: k.If}
		case k.Unless != "":
			cond = timeline.Condition{Kind: timeline.UnlessFlag, Flag: k.Unless}
		}
		tr.AddVisibility(k.Time, a, cond)
	}
	return tr, nil
}

func decodeAnim(ts TrackSpec) (timeline.Track, error) {
	tr := timeline.NewAnimTrack(ts.Name, ts.Slot)
	tr.SkipNotifies = ts.SkipNotifies
	for _, k := range ts.Keys {
		tr.AddClip(timeline.AnimKey{
			Time:        k.Time,
			Clip:        k.Clip,
			StartOffset: k.Start,
			EndOffset:   k.End,
			PlayRate:    k.Rate,
			Looping:     k.Loop,
			Reverse:     k.Reverse,
		})
	}
	for _, w := range ts.Weights {
		v, err := scalar(w.Value)
		if err != nil {
			return nil, fmt.Errorf("weight at %g: %w", w.Time, err)
		}
		tr.Weight.AddKey(w.Time, v, curve.Linear)
	}
	return tr, nil
}

func firing(fs *FiringSpec) timeline.Firing {
	if fs == nil {
		return timeline.DefaultFiring()
	}
	return timeline.Firing{
		FireWhenForwards:        fs.Forwards,
		FireWhenBackwards:       fs.Backwards,
		FireWhenJumpingForwards: fs.Jumping,
		InvertOnReverse:         fs.InvertOnReverse,
	}
}

func addKeys[T curve.Value[T]](ch *timeline.Channel[T], keys []KeySpec, conv func(Value) (T, error)) error {
	for _, k := range keys {
		v, err := conv(k.Value)
		if err != nil {
			return fmt.Errorf("key at %g: %w", k.Time, err)
		}
		mode := ch.KeyMode
		if k.Mode != "" {
			if mode, err = curve.ParseMode(k.Mode); err != nil {
				return err
			}
		}
		ch.Curve.AddKey(k.Time, v, mode)
	}
	return nil
}

func orOne(p *float64) float64 {
	if p == nil {
		return 1
	}
	return *p
}

func scalar(v Value) (curve.Scalar, error) {
	switch len(v) {
	case 0:
		return 0, nil
	case 1:
		return curve.Scalar(v[0]), nil
	}
	return 0, fmt.Errorf("%w: want 1, got %d", ErrValueShape, len(v))
}

func vec2(v Value) (mgl64.Vec2, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec2{1, 1}, nil
	case 2:
		return mgl64.Vec2{v[0], v[1]}, nil
	}
	return mgl64.Vec2{}, fmt.Errorf("%w: want 2, got %d", ErrValueShape, len(v))
}

func vec3(v Value) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec3{}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("%w: want 3, got %d", ErrValueShape, len(v))
}

// color accepts rgb or rgba; a missing alpha is opaque.
func color(v Value) (mgl64.Vec4, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec4{1, 1, 1, 1}, nil
	case 3:
		return mgl64.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl64.Vec4{v[0], v[1], v[2], v[3]}, nil
	}
	return mgl64.Vec4{}, fmt.Errorf("%w: want 3 or 4, got %d", ErrValueShape, len(v))
}
