package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/xform"
)

// Actor is a handle to one entity implementing every host capability.
type Actor struct {
	w *World
	e Entity
}

var (
	_ host.Actor            = (*Actor)(nil)
	_ host.PropertyResolver = (*Actor)(nil)
	_ host.Visible          = (*Actor)(nil)
	_ host.Activatable      = (*Actor)(nil)
	_ host.ConditionSource  = (*Actor)(nil)
	_ host.AudioPlayer      = (*Actor)(nil)
	_ host.AnimationPlayer  = (*Actor)(nil)
	_ host.CameraController = (*Actor)(nil)
)

func (a *Actor) Entity() Entity    { return a.e }
func (a *Actor) ID() host.EntityID { return a.e.ID() }
func (a *Actor) World() *World     { return a.w }

func (a *Actor) Name() string {
	if n, ok := a.w.names.Get(a.e); ok {
		return *n
	}
	return ""
}

// Position is the entity's location in world space.
func (a *Actor) Position() mgl64.Vec3 {
	t, ok := a.w.transforms.Get(a.e)
	if !ok {
		return mgl64.Vec3{}
	}
	base, _ := a.w.parentFrame(a.e)
	return mgl64.TransformCoordinate(t.Position, base)
}

func (a *Actor) SetPosition(p mgl64.Vec3) {
	t, ok := a.w.transforms.Get(a.e)
	if !ok {
		return
	}
	base, _ := a.w.parentFrame(a.e)
	t.Position = mgl64.TransformCoordinate(p, base.Inv())
}

// Rotation is the entity's world rotation. Whole turns of the local
// rotation are kept.
func (a *Actor) Rotation() xform.Rotator {
	t, ok := a.w.transforms.Get(a.e)
	if !ok {
		return xform.Rotator{}
	}
	base, attached := a.w.parentFrame(a.e)
	if !attached {
		return t.Rotation
	}
	winding, rem := t.Rotation.WindingAndRemainder()
	return xform.RotatorFromMatrix(base.Mul4(rem.Matrix())).Add(winding)
}

// SetRotation stores r as given when the entity has no parent, winding
// included.
func (a *Actor) SetRotation(r xform.Rotator) {
	t, ok := a.w.transforms.Get(a.e)
	if !ok {
		return
	}
	base, attached := a.w.parentFrame(a.e)
	if !attached {
		t.Rotation = r
		return
	}
	winding, rem := r.WindingAndRemainder()
	local := xform.RotationOnly(base).Inv().Mul4(rem.Matrix())
	t.Rotation = xform.RotatorFromMatrix(local).Add(winding)
}

func (a *Actor) ParentTransform() (mgl64.Mat4, bool) {
	t, ok := a.w.transforms.Get(a.e)
	if !ok || !a.w.IsAlive(t.Parent) {
		return mgl64.Mat4{}, false
	}
	return a.w.WorldTransform(t.Parent), true
}

func (a *Actor) SetVisible(v bool) { a.w.visible.Set(a.e, v) }

func (a *Actor) IsVisible() bool {
	v, ok := a.w.visible.Get(a.e)
	return ok && *v
}

func (a *Actor) SetActive(v bool) {
	if act, ok := a.w.activation.Get(a.e); ok {
		act.Active = v
	}
}

func (a *Actor) IsActive() bool {
	act, ok := a.w.activation.Get(a.e)
	return ok && act.Active
}

func (a *Actor) Trigger() {
	if act, ok := a.w.activation.Get(a.e); ok {
		act.Triggers++
	}
}

func (a *Actor) Triggers() int {
	if act, ok := a.w.activation.Get(a.e); ok {
		return act.Triggers
	}
	return 0
}

func (a *Actor) Flag(name string) bool { return a.w.Flag(name) }

func (a *Actor) PlayAudioClip(clip string, volume, pitch, offset float64) {
	src, ok := a.w.audio.Get(a.e)
	if !ok {
		return
	}
	src.Playing, src.Volume, src.Pitch = clip, volume, pitch
	src.Log = append(src.Log, fmt.Sprintf("play %s v=%.2f p=%.2f @%.2f", clip, volume, pitch, offset))
}

func (a *Actor) AdjustAudioClip(volume, pitch float64) {
	if src, ok := a.w.audio.Get(a.e); ok && src.Playing != "" {
		src.Volume, src.Pitch = volume, pitch
	}
}

func (a *Actor) StopAudioClip() {
	src, ok := a.w.audio.Get(a.e)
	if !ok || src.Playing == "" {
		return
	}
	src.Log = append(src.Log, "stop "+src.Playing)
	src.Playing = ""
}

// Audio returns a copy of the entity's audio state.
func (a *Actor) Audio() AudioSource {
	if src, ok := a.w.audio.Get(a.e); ok {
		return *src
	}
	return AudioSource{}
}

func (a *Actor) ClipLength(clip string) (float64, bool) { return a.w.ClipLength(clip) }

func (a *Actor) PlayAnimationClip(r host.AnimRequest) {
	if an, ok := a.w.animators.Get(a.e); ok {
		an.Requests = append(an.Requests, r)
	}
}

func (a *Actor) SetAnimationBlendWeights(slot string, weights []float64) {
	if an, ok := a.w.animators.Get(a.e); ok {
		an.Weights[slot] = append([]float64(nil), weights...)
	}
}

func (a *Actor) Animator() Animator {
	if an, ok := a.w.animators.Get(a.e); ok {
		return *an
	}
	return Animator{}
}

// CameraViewpoint is nil while the camera looks through its own entity.
func (a *Actor) CameraViewpoint() host.Actor {
	c, ok := a.w.cameras.Get(a.e)
	if !ok || !c.View.Valid() {
		return nil
	}
	if v := a.w.Actor(c.View); v != nil {
		return v
	}
	return nil
}

func (a *Actor) SetCameraViewpoint(target host.Actor, blend float64) {
	c, ok := a.w.cameras.Get(a.e)
	if !ok {
		return
	}
	c.Blends = append(c.Blends, blend)
	c.View = 0
	if t, ok := target.(*Actor); ok && t != nil && t.w == a.w {
		c.View = t.e
	}
}

// Viewing names the entity the camera looks through, or "" for itself.
func (a *Actor) Viewing() string {
	v := a.CameraViewpoint()
	if v == nil {
		return ""
	}
	return v.Name()
}

func (a *Actor) Camera() Camera {
	if c, ok := a.w.cameras.Get(a.e); ok {
		return *c
	}
	return Camera{}
}
