package catalog

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/sequencer"
)

func TestBuiltinsValidate(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.List() {
		t.Run(name, func(t *testing.T) {
			fx, err := r.Get(name)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if err := fx.Data.Validate(); err != nil {
				t.Fatalf("validate: %v", err)
			}
			if w := fx.Data.Warnings(); len(w) != 0 {
				t.Errorf("unexpected warnings: %v", w)
			}
			if _, err := scene.Build(fx.Scene); err != nil {
				t.Fatalf("scene: %v", err)
			}
			if r.Describe(name) == "" {
				t.Error("missing description")
			}
		})
	}
}

func TestBuiltinsPlayToEnd(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.List() {
		t.Run(name, func(t *testing.T) {
			fx, _ := r.Get(name)
			w, err := scene.Build(fx.Scene)
			if err != nil {
				t.Fatalf("scene: %v", err)
			}
			s, err := sequencer.New(fx.Data, w.Binder(), sequencer.WithGlobals(w), sequencer.WithStreamingHinter(w))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			s.Play()
			steps := 0
			for !s.Tick(0.1) {
				steps++
				if steps > 10000 {
					t.Fatal("sequence never ended")
				}
			}
			if s.State() != sequencer.Stopped {
				t.Errorf("expected stopped, got %s", s.State())
			}
		})
	}
}

func TestGetFreshCopies(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Get("linear")
	b, _ := r.Get("linear")
	if a.Data == b.Data {
		t.Error("expected independent sequence data")
	}
}

func TestGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("orbitt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "did you mean orbit?") {
		t.Errorf("expected suggestion, got %v", err)
	}

	_, err = r.Get("zzzzzzzzzz")
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("expected plain unknown error, got %v", err)
	}
}

func TestOrbitReturnsHome(t *testing.T) {
	fx := Orbit()
	w, _ := scene.Build(fx.Scene)
	s, err := sequencer.New(fx.Data, w.Binder())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	probe, _ := w.Lookup("probe")
	s.Play()

	// the start yaw of 90 turns the -20 x offset into -20 y
	s.SetPosition(5, true)
	if p := w.WorldPosition(probe); math.Abs(p[0]-10) > 1e-6 || math.Abs(p[1]+20) > 1e-6 {
		t.Errorf("expected (10,-20,0) half way, got %v", p)
	}

	s.SetPosition(10, true)
	if p := w.WorldPosition(probe); math.Abs(p[0]-10) > 1e-6 || math.Abs(p[1]) > 1e-6 {
		t.Errorf("expected (10,0,0) at the end, got %v", p)
	}
	if got := w.Actor(probe).Rotation().Yaw; math.Abs(got-450) > 1e-6 {
		t.Errorf("expected yaw 450 after a full turn, got %v", got)
	}
}
