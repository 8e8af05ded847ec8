package sequencer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

// fakeActor records every capability call the sequencer makes.
type fakeActor struct {
	id     host.EntityID
	name   string
	pos    mgl64.Vec3
	rot    xform.Rotator
	parent *mgl64.Mat4

	visible    bool
	active     bool
	triggers   int
	activeSets int

	floats map[string]float64
	flags  map[string]bool

	audio   []string
	clips   map[string]float64
	anims   []host.AnimRequest
	weights map[string][]float64

	view  host.Actor
	blend []float64
}

func newActor(id host.EntityID, name string) *fakeActor {
	return &fakeActor{
		id:      id,
		name:    name,
		visible: true,
		floats:  make(map[string]float64),
		flags:   make(map[string]bool),
		clips:   make(map[string]float64),
		weights: make(map[string][]float64),
	}
}

func (a *fakeActor) ID() host.EntityID           { return a.id }
func (a *fakeActor) Name() string                { return a.name }
func (a *fakeActor) Position() mgl64.Vec3        { return a.pos }
func (a *fakeActor) SetPosition(p mgl64.Vec3)    { a.pos = p }
func (a *fakeActor) Rotation() xform.Rotator     { return a.rot }
func (a *fakeActor) SetRotation(r xform.Rotator) { a.rot = r }

func (a *fakeActor) ParentTransform() (mgl64.Mat4, bool) {
	if a.parent == nil {
		return mgl64.Mat4{}, false
	}
	return *a.parent, true
}

func (a *fakeActor) SetVisible(v bool) { a.visible = v }
func (a *fakeActor) IsVisible() bool   { return a.visible }

func (a *fakeActor) SetActive(v bool) { a.active = v; a.activeSets++ }
func (a *fakeActor) IsActive() bool   { return a.active }
func (a *fakeActor) Trigger()         { a.triggers++ }

func (a *fakeActor) Flag(name string) bool { return a.flags[name] }

type floatProp struct {
	a    *fakeActor
	name string
}

func (p floatProp) Get() float64  { return p.a.floats[p.name] }
func (p floatProp) Set(v float64) { p.a.floats[p.name] = v }

func (a *fakeActor) ResolveFloat(name string) (host.Property[float64], bool) {
	if _, ok := a.floats[name]; !ok {
		return nil, false
	}
	return floatProp{a, name}, true
}

func (a *fakeActor) ResolveVector(string) (host.Property[mgl64.Vec3], bool) { return nil, false }
func (a *fakeActor) ResolveColor(string) (host.Property[mgl64.Vec4], bool)  { return nil, false }

func (a *fakeActor) PlayAudioClip(clip string, volume, pitch, offset float64) {
	a.audio = append(a.audio, fmt.Sprintf("play %s v=%.2f p=%.2f @%.2f", clip, volume, pitch, offset))
}

func (a *fakeActor) AdjustAudioClip(volume, pitch float64) {}

func (a *fakeActor) StopAudioClip() { a.audio = append(a.audio, "stop") }

func (a *fakeActor) ClipLength(clip string) (float64, bool) {
	l, ok := a.clips[clip]
	return l, ok
}

func (a *fakeActor) PlayAnimationClip(r host.AnimRequest) { a.anims = append(a.anims, r) }
func (a *fakeActor) SetAnimationBlendWeights(slot string, w []float64) {
	a.weights[slot] = append([]float64(nil), w...)
}

func (a *fakeActor) CameraViewpoint() host.Actor { return a.view }
func (a *fakeActor) SetCameraViewpoint(target host.Actor, blend float64) {
	a.view = target
	a.blend = append(a.blend, blend)
}

func binder(actors ...*fakeActor) Binder {
	byName := make(map[string]*fakeActor)
	for _, a := range actors {
		byName[a.name] = a
	}
	return func(g *timeline.Group) host.Actor {
		if a, ok := byName[g.BindName()]; ok {
			return a
		}
		return nil
	}
}

type recorder struct {
	events []Fired
}

func (r *recorder) sink(f Fired) { r.events = append(r.events, f) }

func (r *recorder) names() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

type hint struct {
	pos   mgl64.Vec3
	ahead float64
}

type fakeGlobals struct {
	fades []float64
	slomo []float64
	hints []hint
}

func (g *fakeGlobals) SetFade(v float64)         { g.fades = append(g.fades, v) }
func (g *fakeGlobals) SetTimeDilation(v float64) { g.slomo = append(g.slomo, v) }

func (g *fakeGlobals) SetAudioMaster(volume, pitch float64) {}

func (g *fakeGlobals) PrefetchAt(pos mgl64.Vec3, ahead float64) {
	g.hints = append(g.hints, hint{pos, ahead})
}

func eventSequence(duration float64, keys map[float64]string) *timeline.SequenceData {
	ev := timeline.NewEventTrack("events")
	for t, name := range keys {
		ev.AddEvent(t, name)
	}
	return &timeline.SequenceData{
		Name:     "events",
		Duration: duration,
		Groups:   []*timeline.Group{timeline.NewGroup("fx", ev)},
	}
}
