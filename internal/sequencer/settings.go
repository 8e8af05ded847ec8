package sequencer

import (
	"log/slog"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
)

// Settings are the playback policies of a Sequencer.
type Settings struct {
	Rate                      float64
	Loop                      bool
	RewindOnPlay              bool
	ResetInitialOnLoop        bool
	AllowTriggersWhileJumping bool
	// RestoreOnStop puts saved property values back when playback stops.
	RestoreOnStop bool
	// BoundaryEpsilon widens crossing intervals that touch 0 or the end.
	BoundaryEpsilon float64
	// Lookahead is how far ahead of the cursor camera cuts are hinted.
	Lookahead float64
}

func DefaultSettings() Settings {
	return Settings{
		Rate:            1,
		RestoreOnStop:   true,
		BoundaryEpsilon: 0.1,
		Lookahead:       10,
	}
}

// Fired describes one event key crossed during playback.
type Fired struct {
	Group string  `json:"group"`
	Track string  `json:"track"`
	Name  string  `json:"name"`
	Time  float64 `json:"time"`
}

// Binder supplies the entity a group drives. Returning nil leaves the group
// unbound; its tracks then do nothing.
type Binder func(g *timeline.Group) host.Actor

type Option func(*Sequencer)

func WithSettings(cfg Settings) Option {
	return func(s *Sequencer) { s.settings = cfg }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEventSink registers a receiver for event keys. Sinks are called in
// registration order.
func WithEventSink(fn func(Fired)) Option {
	return func(s *Sequencer) { s.sinks = append(s.sinks, fn) }
}

func WithGlobals(g host.GlobalParams) Option {
	return func(s *Sequencer) { s.globals = g }
}

func WithStreamingHinter(h host.StreamingHinter) Option {
	return func(s *Sequencer) { s.hinter = h }
}

// WithConditions sets the flag source for conditional visibility keys. When
// unset, a bound entity implementing host.ConditionSource answers for itself.
func WithConditions(c host.ConditionSource) Option {
	return func(s *Sequencer) { s.conditions = c }
}
