// Package host declares the capabilities the sequencer needs from a scene.
//
// Only [Actor] is required of a bound entity. Every other capability is
// discovered with a type assertion at bind time; an entity that lacks one
// simply ignores the tracks that need it.
package host

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/xform"
)

// EntityID identifies an entity for the lifetime of a binding.
type EntityID uint64

// Actor is the minimum an entity exposes to be bound by a group.
type Actor interface {
	ID() EntityID
	Name() string
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
	Rotation() xform.Rotator
	SetRotation(xform.Rotator)
	// ParentTransform returns the parent's world matrix when the entity is attached.
	ParentTransform() (mgl64.Mat4, bool)
}

// Property is a typed accessor resolved once when a track binds.
type Property[T any] interface {
	Get() T
	Set(T)
}

// PropertyResolver resolves dotted property names such as "light.Intensity".
type PropertyResolver interface {
	ResolveFloat(name string) (Property[float64], bool)
	ResolveVector(name string) (Property[mgl64.Vec3], bool)
	ResolveColor(name string) (Property[mgl64.Vec4], bool)
}

type Visible interface {
	SetVisible(bool)
	IsVisible() bool
}

type Activatable interface {
	SetActive(bool)
	IsActive() bool
	Trigger()
}

// ConditionSource answers named flags for conditional visibility keys.
type ConditionSource interface {
	Flag(name string) bool
}

type AudioPlayer interface {
	PlayAudioClip(clip string, volume, pitch, offset float64)
	AdjustAudioClip(volume, pitch float64)
	StopAudioClip()
	// ClipLength reports the clip duration in seconds when known.
	ClipLength(clip string) (float64, bool)
}

// AnimRequest positions one clip on one channel of an animation slot.
type AnimRequest struct {
	Slot         string
	Channel      int
	Clip         string
	Time         float64
	Loop         bool
	FireNotifies bool
}

type AnimationPlayer interface {
	PlayAnimationClip(AnimRequest)
	SetAnimationBlendWeights(slot string, weights []float64)
	ClipLength(clip string) (float64, bool)
}

// CameraController is implemented by the entity bound to the director group.
type CameraController interface {
	CameraViewpoint() Actor
	SetCameraViewpoint(target Actor, blend float64)
}

// GlobalParams receives fade, time dilation and master audio values.
type GlobalParams interface {
	SetFade(amount float64)
	SetTimeDilation(scale float64)
	SetAudioMaster(volume, pitch float64)
}

// StreamingHinter is told about camera targets that will be cut to soon.
// Hints are advisory.
type StreamingHinter interface {
	PrefetchAt(pos mgl64.Vec3, secondsAhead float64)
}
