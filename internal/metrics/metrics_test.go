package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/sequencer"
)

func frame(t float64, x float64, view string, fired ...string) bake.Frame {
	f := bake.Frame{
		Time:    t,
		Samples: []bake.Sample{{Entity: "cube", Position: mgl64.Vec3{x, 0, 0}}},
		View:    view,
	}
	for _, name := range fired {
		f.Fired = append(f.Fired, sequencer.Fired{Name: name, Time: t})
	}
	return f
}

func TestEventCount(t *testing.T) {
	all := NewEventCount("")
	boom := NewEventCount("boom")
	for _, f := range []bake.Frame{frame(0, 0, "", "intro"), frame(1, 0, "", "boom", "flash"), frame(2, 0, "", "boom")} {
		all.Observe(f)
		boom.Observe(f)
	}
	if all.Value() != 4 {
		t.Errorf("expected 4 events, got %f", all.Value())
	}
	if boom.Value() != 2 {
		t.Errorf("expected 2 boom events, got %f", boom.Value())
	}
	if boom.Name() != "event_count:boom" {
		t.Errorf("expected filtered name, got %s", boom.Name())
	}

	all.Reset()
	if all.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPathLengthAndSpeed(t *testing.T) {
	p := NewPathLength("cube")
	s := NewMaxSpeed("cube")
	for _, f := range []bake.Frame{frame(0, 0, ""), frame(1, 2, ""), frame(1.5, 5, ""), frame(2, 4, "")} {
		p.Observe(f)
		s.Observe(f)
	}
	if math.Abs(p.Value()-6) > 1e-9 {
		t.Errorf("expected path 6, got %f", p.Value())
	}
	if math.Abs(s.Value()-6) > 1e-9 {
		t.Errorf("expected max speed 6, got %f", s.Value())
	}

	p.Reset()
	p.Observe(frame(3, 100, ""))
	if p.Value() != 0 {
		t.Errorf("expected reset path to ignore the previous sample, got %f", p.Value())
	}
}

func TestPathLengthMissingEntity(t *testing.T) {
	p := NewPathLength("ghost")
	p.Observe(frame(0, 0, ""))
	p.Observe(frame(1, 3, ""))
	if p.Value() != 0 {
		t.Errorf("expected 0 for unknown entity, got %f", p.Value())
	}
}

func TestCutCount(t *testing.T) {
	c := NewCutCount()
	for _, v := range []string{"", "A", "A", "B", "", ""} {
		c.Observe(frame(0, 0, v))
	}
	if c.Value() != 3 {
		t.Errorf("expected 3 cuts, got %f", c.Value())
	}
}

func TestDefaultOnLinearBake(t *testing.T) {
	fx := catalog.Linear()
	b := bake.New(fx)
	for _, m := range Default(fx.Data) {
		b.AddMetric(m)
	}

	res, err := b.Run(context.Background(), bake.Config{Dt: 0.5, Duration: 4, Settings: sequencer.DefaultSettings()})
	if err != nil {
		t.Fatalf("bake failed: %v", err)
	}
	if got := res.Metrics["path_length:cube"]; math.Abs(got-10) > 1e-9 {
		t.Errorf("expected cube path 10, got %f", got)
	}
	if got := res.Metrics["cut_count"]; got != 0 {
		t.Errorf("expected no cuts, got %f", got)
	}
}
