package xform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func rotApprox(a, b Rotator) bool {
	return approx(a.Pitch, b.Pitch) && approx(a.Yaw, b.Yaw) && approx(a.Roll, b.Roll)
}

func TestNormalizeAxis(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{360, 0},
		{725, 5},
		{-725, -5},
	}
	for _, tt := range tests {
		if got := NormalizeAxis(tt.in); !approx(got, tt.expected) {
			t.Errorf("NormalizeAxis(%v) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestWindingAndRemainder(t *testing.T) {
	r := Rotator{Pitch: 30, Yaw: 725, Roll: -400}
	w, rem := r.WindingAndRemainder()

	if !rotApprox(w.Add(rem), r) {
		t.Errorf("winding+remainder = %+v, want %+v", w.Add(rem), r)
	}
	if !approx(w.Yaw, 720) || !approx(rem.Yaw, 5) {
		t.Errorf("unexpected yaw split %v / %v", w.Yaw, rem.Yaw)
	}
	if !approx(w.Roll, -360) || !approx(rem.Roll, -40) {
		t.Errorf("unexpected roll split %v / %v", w.Roll, rem.Roll)
	}
	if w.Pitch != 0 {
		t.Errorf("expected no pitch winding, got %v", w.Pitch)
	}
}

func TestRotatorMatrixRoundTrip(t *testing.T) {
	tests := []Rotator{
		{},
		{Yaw: 90},
		{Pitch: 30, Yaw: -45, Roll: 10},
		{Pitch: -60, Yaw: 170, Roll: -120},
	}
	for _, r := range tests {
		got := RotatorFromMatrix(r.Matrix())
		if !rotApprox(got, r) {
			t.Errorf("round trip of %+v gave %+v", r, got)
		}
	}
}

func TestTransformDecompose(t *testing.T) {
	pos := mgl64.Vec3{1, 2, 3}
	rot := Rotator{Yaw: 90}
	p, r := Decompose(Transform(pos, rot))
	if !p.ApproxEqual(pos) || !rotApprox(r, rot) {
		t.Errorf("decompose gave %v %+v", p, r)
	}

	// yaw 90 turns forward (+X) into +Y
	fwd := TransformNormal(rot.Matrix(), mgl64.Vec3{1, 0, 0})
	if !fwd.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("expected +Y, got %v", fwd)
	}
}

func TestRemoveScaling(t *testing.T) {
	m := mgl64.Translate3D(5, 0, 0).Mul4(mgl64.Scale3D(2, 3, 4))
	s := RemoveScaling(m)
	for c := 0; c < 3; c++ {
		if l := s.Col(c).Vec3().Len(); !approx(l, 1) {
			t.Errorf("column %d length %v, want 1", c, l)
		}
	}
	if !Origin(s).ApproxEqual(mgl64.Vec3{5, 0, 0}) {
		t.Errorf("translation should survive, got %v", Origin(s))
	}
}

func TestLookAt(t *testing.T) {
	tests := []struct {
		target   mgl64.Vec3
		expected Rotator
	}{
		{mgl64.Vec3{1, 0, 0}, Rotator{}},
		{mgl64.Vec3{0, 5, 0}, Rotator{Yaw: 90}},
		{mgl64.Vec3{0, 0, -3}, Rotator{Pitch: 90}},
		{mgl64.Vec3{0, 0, 0}, Rotator{}},
	}
	for _, tt := range tests {
		got := LookAt(mgl64.Vec3{}, tt.target)
		if !rotApprox(got, tt.expected) {
			t.Errorf("LookAt(%v) = %+v, want %+v", tt.target, got, tt.expected)
		}
		if tt.target.Len() > 0 {
			dir := TransformNormal(got.Matrix(), mgl64.Vec3{1, 0, 0})
			if !dir.ApproxEqualThreshold(tt.target.Normalize(), 1e-9) {
				t.Errorf("LookAt(%v) points at %v", tt.target, dir)
			}
		}
	}
}
