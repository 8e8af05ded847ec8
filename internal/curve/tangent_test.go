package curve

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCubicInterp_Endpoints(t *testing.T) {
	p0, p1 := Scalar(2), Scalar(7)
	if got := CubicInterp(p0, 3, p1, -1, 0); got != p0 {
		t.Errorf("alpha 0: expected %v, got %v", p0, got)
	}
	if got := CubicInterp(p0, 3, p1, -1, 1); math.Abs(float64(got-p1)) > 1e-12 {
		t.Errorf("alpha 1: expected %v, got %v", p1, got)
	}
}

func TestLegacyAutoCalcTangent(t *testing.T) {
	tests := []struct {
		prev, p, next Scalar
		tension       float64
		expected      Scalar
	}{
		{0, 1, 2, 0, 2},
		{0, 1, 2, 0.5, 1},
		{0, 5, 0, 0, 0},
		{3, 3, 3, 0, 0},
	}
	for _, tt := range tests {
		if got := LegacyAutoCalcTangent(tt.prev, tt.p, tt.next, tt.tension); got != tt.expected {
			t.Errorf("LegacyAutoCalcTangent(%v,%v,%v,%v) = %v, want %v", tt.prev, tt.p, tt.next, tt.tension, got, tt.expected)
		}
	}
}

func TestComputeCurveTangent_Unclamped(t *testing.T) {
	got := ComputeCurveTangent(0, Scalar(0), 1, Scalar(1), 2, Scalar(10), 0, false)
	if math.Abs(float64(got)-5) > 1e-12 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestComputeCurveTangent_Clamped(t *testing.T) {
	got := float64(ComputeCurveTangent(0, Scalar(0), 1, Scalar(1), 2, Scalar(10), 0, true))
	want := 5 - 4*(1-0.1/clampThreshold)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got >= 5 {
		t.Errorf("clamped tangent %v should be flatter than unclamped", got)
	}
}

func TestClampFloatTangent_Crest(t *testing.T) {
	tests := []struct {
		name            string
		prev, cur, next float64
	}{
		{"peak", 0, 10, 0},
		{"trough", 5, -3, 4},
		{"flat start", 2, 2, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampFloatTangent(tt.prev, 0, tt.cur, 1, tt.next, 2); got != 0 {
				t.Errorf("expected zero tangent, got %v", got)
			}
		})
	}
}

func TestComputeCurveTangent_VectorChannels(t *testing.T) {
	got := ComputeCurveTangent(0, mgl64.Vec3{0, 0, 0}, 1, mgl64.Vec3{1, 10, 5}, 2, mgl64.Vec3{10, 0, 10}, 0, true)
	if got[1] != 0 {
		t.Errorf("crest channel should be flat, got %v", got[1])
	}
	if math.Abs(got[2]-5) > 1e-9 {
		t.Errorf("midpoint channel should keep the chord slope 5, got %v", got[2])
	}
}

func TestAutoSetTangents_ModeRules(t *testing.T) {
	c := &Curve[Scalar]{}
	c.AddKey(0, 0, Linear)
	c.AddKey(1, 4, Constant)
	c.AddKey(2, 6, CurveAuto)

	if c.Keys[0].LeaveTangent != 4 {
		t.Errorf("linear key tangent should point at next key, got %v", c.Keys[0].LeaveTangent)
	}
	if c.Keys[1].LeaveTangent != 0 {
		t.Errorf("constant key tangent should be zero, got %v", c.Keys[1].LeaveTangent)
	}
	if c.Keys[2].ArriveTangent != c.Keys[1].ArriveTangent {
		t.Errorf("auto key after a constant key should inherit its tangent, got %v", c.Keys[2].ArriveTangent)
	}
}

func TestAutoSetTangents_UserKept(t *testing.T) {
	c := &Curve[Scalar]{}
	c.AddKey(0, 0, CurveAuto)
	c.AddKey(2, 2, CurveAuto)
	if err := c.SetKeyTangents(0, 3, 9); err != nil {
		t.Fatalf("SetKeyTangents failed: %v", err)
	}
	if c.Keys[0].Mode != CurveUser {
		t.Errorf("expected key to become user mode, got %v", c.Keys[0].Mode)
	}
	c.AddKey(1, 1, CurveAuto)
	if c.Keys[0].ArriveTangent != 3 || c.Keys[0].LeaveTangent != 3 {
		t.Errorf("user tangents should survive recompute, got %v/%v", c.Keys[0].ArriveTangent, c.Keys[0].LeaveTangent)
	}
}
