package bake

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/seqsim/internal/fixture"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/sequencer"
	"github.com/san-kum/seqsim/internal/timeline"
)

// Baker plays a sequence at a fixed step in a fresh scene and records every
// frame.
type Baker struct {
	fx        *fixture.Fixture
	metrics   []Metric
	observers []Observer
	sinks     []func(sequencer.Fired)
	builds    []func(*scene.World)
	log       *slog.Logger
}

func New(fx *fixture.Fixture) *Baker {
	return &Baker{
		fx:        fx,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.New(slog.DiscardHandler),
	}
}

func (b *Baker) AddMetric(m Metric)                    { b.metrics = append(b.metrics, m) }
func (b *Baker) AddObserver(o Observer)                { b.observers = append(b.observers, o) }
func (b *Baker) AddEventSink(fn func(sequencer.Fired)) { b.sinks = append(b.sinks, fn) }

// OnBuild registers fn to run on each freshly built scene before playback.
func (b *Baker) OnBuild(fn func(*scene.World)) { b.builds = append(b.builds, fn) }

func (b *Baker) SetLogger(l *slog.Logger) {
	if l != nil {
		b.log = l
	}
}

func (b *Baker) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := b.validateConfig(cfg); err != nil {
		return nil, err
	}

	w, err := scene.Build(b.fx.Scene)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	for _, fn := range b.builds {
		fn(w)
	}

	var pending []sequencer.Fired
	opts := []sequencer.Option{
		sequencer.WithSettings(cfg.Settings),
		sequencer.WithLogger(b.log),
		sequencer.WithGlobals(w),
		sequencer.WithStreamingHinter(w),
		sequencer.WithEventSink(func(f sequencer.Fired) { pending = append(pending, f) }),
	}
	for _, fn := range b.sinks {
		opts = append(opts, sequencer.WithEventSink(fn))
	}
	s, err := sequencer.New(b.fx.Data, w.Binder(), opts...)
	if err != nil {
		return nil, err
	}

	steps := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	result := &Result{
		Sequence: b.fx.Data.Name,
		Frames:   make([]Frame, 0, steps+1),
		Metrics:  make(map[string]float64),
	}
	s.OnLooped(func() { result.Loops++ })

	for _, m := range b.metrics {
		m.Reset()
	}

	view := DirectorCamera(w, b.fx.Data)
	record := func(t float64) {
		f := Capture(w, view, t, s.Position())
		f.Fired, pending = pending, nil
		result.Events = append(result.Events, f.Fired...)
		result.Frames = append(result.Frames, f)
		for _, m := range b.metrics {
			m.Observe(f)
		}
		for _, obs := range b.observers {
			obs.OnStep(f)
		}
	}

	b.log.Debug("bake start", "sequence", b.fx.Data.Name, "dt", cfg.Dt, "steps", steps)
	s.Play()
	record(0)

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.Stop()
			return result, ctx.Err()
		default:
		}

		dt := math.Min(cfg.Dt, cfg.Duration-t)
		done := s.Tick(dt)
		t += dt
		result.StepsTaken++
		record(t)
		if done {
			break
		}
	}
	s.Stop()

	for _, m := range b.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	b.log.Debug("bake done", "sequence", b.fx.Data.Name, "frames", len(result.Frames), "events", len(result.Events))
	return result, nil
}

func (b *Baker) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if b.fx == nil || b.fx.Data == nil {
		return sequencer.ErrNoData
	}
	return nil
}

// DirectorCamera is the actor bound to the director group of data, if any.
func DirectorCamera(w *scene.World, data *timeline.SequenceData) *scene.Actor {
	g := data.Director()
	if g == nil {
		return nil
	}
	e, ok := w.Lookup(g.BindName())
	if !ok {
		return nil
	}
	return w.Actor(e)
}

// Capture samples every entity of w. cam may be nil.
func Capture(w *scene.World, cam *scene.Actor, t, pos float64) Frame {
	names := w.Names()
	f := Frame{Time: t, Position: pos, Samples: make([]Sample, 0, len(names)), Fade: w.Fade}
	for _, name := range names {
		e, _ := w.Lookup(name)
		a := w.Actor(e)
		f.Samples = append(f.Samples, Sample{
			Entity:   name,
			Position: w.WorldPosition(e),
			Rotation: a.Rotation(),
			Visible:  a.IsVisible(),
		})
	}
	if cam != nil {
		f.View = cam.Viewing()
	}
	return f
}
