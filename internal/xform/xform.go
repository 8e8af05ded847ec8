// Package xform holds the rotation and frame maths used by movement tracks.
//
// Rotations are Euler angles in degrees. The matrix convention is column
// vectors with R = Rz(yaw) * Ry(pitch) * Rx(roll); +X is forward.
package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotator is an Euler rotation in degrees. Values may exceed a full turn;
// the excess is the winding.
type Rotator struct {
	Pitch float64 `yaml:"pitch" json:"pitch"`
	Yaw   float64 `yaml:"yaw" json:"yaw"`
	Roll  float64 `yaml:"roll" json:"roll"`
}

// Euler packs the rotator as (roll, pitch, yaw), the layout rotation curves use.
func (r Rotator) Euler() mgl64.Vec3 {
	return mgl64.Vec3{r.Roll, r.Pitch, r.Yaw}
}

// FromEuler is the inverse of Euler.
func FromEuler(v mgl64.Vec3) Rotator {
	return Rotator{Roll: v[0], Pitch: v[1], Yaw: v[2]}
}

func (r Rotator) Add(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch + o.Pitch, Yaw: r.Yaw + o.Yaw, Roll: r.Roll + o.Roll}
}

func (r Rotator) IsZero() bool {
	return r.Pitch == 0 && r.Yaw == 0 && r.Roll == 0
}

// NormalizeAxis maps an angle into (-180, 180].
func NormalizeAxis(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a > 180 {
		a -= 360
	}
	return a
}

// WindingAndRemainder splits r so that winding+remainder == r, with every
// remainder component in (-180, 180] and the winding a multiple of 360.
func (r Rotator) WindingAndRemainder() (winding, remainder Rotator) {
	remainder = Rotator{
		Pitch: NormalizeAxis(r.Pitch),
		Yaw:   NormalizeAxis(r.Yaw),
		Roll:  NormalizeAxis(r.Roll),
	}
	winding = Rotator{
		Pitch: r.Pitch - remainder.Pitch,
		Yaw:   r.Yaw - remainder.Yaw,
		Roll:  r.Roll - remainder.Roll,
	}
	return winding, remainder
}

// Matrix returns the rotation as a homogeneous matrix.
func (r Rotator) Matrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(mgl64.DegToRad(r.Yaw)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(r.Pitch))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(r.Roll)))
}

// Transform builds translation*rotation.
func Transform(pos mgl64.Vec3, rot Rotator) mgl64.Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).Mul4(rot.Matrix())
}

// Origin is the translation column of m.
func Origin(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// RotatorFromMatrix extracts the rotation of an orthonormal matrix. Each
// component lands in (-180, 180].
func RotatorFromMatrix(m mgl64.Mat4) Rotator {
	sp := -m.At(2, 0)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	pitch := math.Asin(sp)

	var yaw, roll float64
	if math.Abs(sp) < 1-1e-9 {
		yaw = math.Atan2(m.At(1, 0), m.At(0, 0))
		roll = math.Atan2(m.At(2, 1), m.At(2, 2))
	} else {
		// gimbal lock: fold roll into yaw
		yaw = math.Atan2(-m.At(0, 1), m.At(1, 1))
	}
	return Rotator{
		Pitch: clean(mgl64.RadToDeg(pitch)),
		Yaw:   clean(mgl64.RadToDeg(yaw)),
		Roll:  clean(mgl64.RadToDeg(roll)),
	}
}

// clean snaps values within rounding noise of zero.
func clean(deg float64) float64 {
	if math.Abs(deg) < 1e-9 {
		return 0
	}
	return deg
}

// Decompose returns the origin and rotation of m.
func Decompose(m mgl64.Mat4) (mgl64.Vec3, Rotator) {
	return Origin(m), RotatorFromMatrix(m)
}

// RemoveScaling returns m with unit-length basis columns.
func RemoveScaling(m mgl64.Mat4) mgl64.Mat4 {
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		l := col.Len()
		if l < 1e-12 {
			continue
		}
		col = col.Mul(1 / l)
		m.SetCol(c, col.Vec4(0))
	}
	return m
}

// RotationOnly drops the translation of m.
func RotationOnly(m mgl64.Mat4) mgl64.Mat4 {
	m.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
	return m
}

// TransformNormal applies the rotation/scale part of m to v.
func TransformNormal(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// LookAt returns the rotation that points +X from eye toward target with
// zero roll. Coincident points yield the zero rotation.
func LookAt(eye, target mgl64.Vec3) Rotator {
	d := target.Sub(eye)
	if d.Len() < 1e-9 {
		return Rotator{}
	}
	d = d.Normalize()
	return Rotator{
		Pitch: clean(mgl64.RadToDeg(math.Atan2(-d[2], math.Hypot(d[0], d[1])))),
		Yaw:   clean(mgl64.RadToDeg(math.Atan2(d[1], d[0]))),
	}
}
