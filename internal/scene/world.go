package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

// World owns every entity and component of a scene. It also stands in for
// the global parameters and the streaming system.
type World struct {
	entities entityStore
	byName   map[string]Entity

	names      *SparseSet[string]
	transforms *SparseSet[Transform]
	visible    *SparseSet[bool]
	activation *SparseSet[Activation]
	audio      *SparseSet[AudioSource]
	animators  *SparseSet[Animator]
	cameras    *SparseSet[Camera]
	props      *SparseSet[map[string]any]

	flags map[string]bool
	clips map[string]float64

	Fade         float64
	Dilation     float64
	MasterVolume float64
	MasterPitch  float64
	Hints        []Hint
}

func NewWorld() *World {
	return &World{
		byName:       make(map[string]Entity),
		names:        &SparseSet[string]{},
		transforms:   &SparseSet[Transform]{},
		visible:      &SparseSet[bool]{},
		activation:   &SparseSet[Activation]{},
		audio:        &SparseSet[AudioSource]{},
		animators:    &SparseSet[Animator]{},
		cameras:      &SparseSet[Camera]{},
		props:        &SparseSet[map[string]any]{},
		flags:        make(map[string]bool),
		clips:        make(map[string]float64),
		Dilation:     1,
		MasterVolume: 1,
		MasterPitch:  1,
	}
}

// Spawn creates a named entity with a transform and every playback
// component. A later entity with the same name shadows the earlier one in
// Lookup.
func (w *World) Spawn(name string, t Transform) Entity {
	e := w.entities.create()
	w.names.Set(e, name)
	w.transforms.Set(e, t)
	w.visible.Set(e, true)
	w.activation.Set(e, Activation{})
	w.audio.Set(e, AudioSource{})
	w.animators.Set(e, Animator{Weights: make(map[string][]float64)})
	w.cameras.Set(e, Camera{})
	w.props.Set(e, make(map[string]any))
	w.byName[name] = e
	return e
}

func (w *World) Destroy(e Entity) bool {
	if !w.entities.alive(e) {
		return false
	}
	if name, ok := w.names.Get(e); ok && w.byName[*name] == e {
		delete(w.byName, *name)
	}
	w.names.Remove(e)
	w.transforms.Remove(e)
	w.visible.Remove(e)
	w.activation.Remove(e)
	w.audio.Remove(e)
	w.animators.Remove(e)
	w.cameras.Remove(e)
	w.props.Remove(e)
	return w.entities.destroy(e)
}

func (w *World) IsAlive(e Entity) bool { return w.entities.alive(e) }

func (w *World) Lookup(name string) (Entity, bool) {
	e, ok := w.byName[name]
	return e, ok && w.entities.alive(e)
}

// Names lists live entity names in sorted order.
func (w *World) Names() []string {
	out := make([]string, 0, len(w.byName))
	for name, e := range w.byName {
		if w.entities.alive(e) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Attach parents child to parent. Passing a zero parent detaches it.
func (w *World) Attach(child, parent Entity) {
	if t, ok := w.transforms.Get(child); ok {
		t.Parent = parent
	}
}

// AddComponent registers a property component under name. v must be a
// pointer to a struct.
func (w *World) AddComponent(e Entity, name string, v any) {
	if p, ok := w.props.Get(e); ok {
		(*p)[name] = v
	}
}

func (w *World) Component(e Entity, name string) (any, bool) {
	p, ok := w.props.Get(e)
	if !ok {
		return nil, false
	}
	v, ok := (*p)[name]
	return v, ok
}

func (w *World) Transform(e Entity) (Transform, bool) {
	t, ok := w.transforms.Get(e)
	if !ok {
		return Transform{}, false
	}
	return *t, true
}

// WorldTransform composes e's local matrix with its ancestors'. A parent's
// scale does not carry over to its children.
func (w *World) WorldTransform(e Entity) mgl64.Mat4 {
	var chain []Transform
	for e.Valid() && len(chain) <= w.transforms.Len() {
		t, ok := w.transforms.Get(e)
		if !ok {
			break
		}
		chain = append(chain, *t)
		e = t.Parent
	}
	m := mgl64.Ident4()
	for i := len(chain) - 1; i >= 0; i-- {
		if i < len(chain)-1 {
			m = xform.RemoveScaling(m)
		}
		m = m.Mul4(chain[i].Local())
	}
	return m
}

// parentFrame is the unscaled world matrix of e's parent.
func (w *World) parentFrame(e Entity) (mgl64.Mat4, bool) {
	t, ok := w.transforms.Get(e)
	if !ok || !w.IsAlive(t.Parent) {
		return mgl64.Ident4(), false
	}
	return xform.RemoveScaling(w.WorldTransform(t.Parent)), true
}

func (w *World) WorldPosition(e Entity) mgl64.Vec3 {
	return w.WorldTransform(e).Col(3).Vec3()
}

func (w *World) SetFlag(name string, v bool) { w.flags[name] = v }
func (w *World) Flag(name string) bool       { return w.flags[name] }

func (w *World) SetClip(name string, length float64) { w.clips[name] = length }

func (w *World) ClipLength(clip string) (float64, bool) {
	l, ok := w.clips[clip]
	return l, ok
}

func (w *World) SetFade(amount float64)        { w.Fade = amount }
func (w *World) SetTimeDilation(scale float64) { w.Dilation = scale }

func (w *World) SetAudioMaster(volume, pitch float64) {
	w.MasterVolume, w.MasterPitch = volume, pitch
}

func (w *World) PrefetchAt(pos mgl64.Vec3, ahead float64) {
	w.Hints = append(w.Hints, Hint{Position: pos, Ahead: ahead})
}

// Actor returns the host view of e, or nil when e is not alive.
func (w *World) Actor(e Entity) *Actor {
	if !w.entities.alive(e) {
		return nil
	}
	return &Actor{w: w, e: e}
}

// Binder resolves groups by bind name. Unknown names bind nothing.
func (w *World) Binder() func(*timeline.Group) host.Actor {
	return func(g *timeline.Group) host.Actor {
		e, ok := w.Lookup(g.BindName())
		if !ok {
			return nil
		}
		return w.Actor(e)
	}
}

var (
	_ host.GlobalParams    = (*World)(nil)
	_ host.StreamingHinter = (*World)(nil)
)
