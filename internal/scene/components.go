package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/xform"
)

// Transform is an entity's pose relative to its parent, or to the world
// when Parent is zero.
type Transform struct {
	Position mgl64.Vec3
	Rotation xform.Rotator
	Scale    mgl64.Vec3
	Parent   Entity
}

func (t Transform) Local() mgl64.Mat4 {
	m := xform.Transform(t.Position, t.Rotation)
	s := t.Scale
	if s == (mgl64.Vec3{}) {
		return m
	}
	return m.Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

type Activation struct {
	Active   bool
	Triggers int
}

// AudioSource keeps the playing clip and a log of every audio command.
type AudioSource struct {
	Playing string
	Volume  float64
	Pitch   float64
	Log     []string
}

type Animator struct {
	Requests []host.AnimRequest
	Weights  map[string][]float64
}

// Camera holds the entity the camera is looking through; zero means itself.
type Camera struct {
	View   Entity
	Blends []float64
}

// Light and Material are the component structs registered for property
// tracks by Build.
type Light struct {
	Intensity float64
	Radius    float64
	Color     mgl64.Vec4
}

type Material struct {
	Tint    mgl64.Vec4
	Offset  mgl64.Vec3
	Opacity float64
}

// Hint records one streaming prefetch request.
type Hint struct {
	Position mgl64.Vec3
	Ahead    float64
}
