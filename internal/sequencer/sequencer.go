package sequencer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
)

var (
	ErrNoData    = errors.New("sequencer: no sequence data")
	ErrNotBound  = errors.New("sequencer: group is not bound")
	ErrWrongKind = errors.New("sequencer: track is not a movement track")
)

type State int

const (
	Stopped State = iota
	PlayingForward
	PlayingReverse
	Paused
)

func (s State) String() string {
	switch s {
	case PlayingForward:
		return "playing"
	case PlayingReverse:
		return "reversing"
	case Paused:
		return "paused"
	}
	return "stopped"
}

type Sequencer struct {
	data       *timeline.SequenceData
	bind       Binder
	settings   Settings
	log        *slog.Logger
	sinks      []func(Fired)
	looped     []func()
	globals    host.GlobalParams
	hinter     host.StreamingHinter
	conditions host.ConditionSource

	groups []*GroupInstance
	byName map[string]int
	bound  bool

	playing bool
	paused  bool
	reverse bool
	pos     float64
}

// New validates data and returns a stopped sequencer at position 0.
func New(data *timeline.SequenceData, bind Binder, opts ...Option) (*Sequencer, error) {
	if data == nil {
		return nil, ErrNoData
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sequence %q: %w", data.Name, err)
	}

	s := &Sequencer{
		data:     data,
		bind:     bind,
		settings: DefaultSettings(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.settings.Rate <= 0 {
		s.settings.Rate = 1
	}
	for _, w := range data.Warnings() {
		s.log.Warn(w, "sequence", data.Name)
	}
	return s, nil
}

func (s *Sequencer) Data() *timeline.SequenceData { return s.data }
func (s *Sequencer) Settings() Settings           { return s.settings }
func (s *Sequencer) Position() float64            { return s.pos }
func (s *Sequencer) Duration() float64            { return s.data.Length() }
func (s *Sequencer) Bound() bool                  { return s.bound }

// OnLooped registers fn to run once per loop wrap.
func (s *Sequencer) OnLooped(fn func()) {
	s.looped = append(s.looped, fn)
}

func (s *Sequencer) State() State {
	switch {
	case !s.playing:
		return Stopped
	case s.paused:
		return Paused
	case s.reverse:
		return PlayingReverse
	}
	return PlayingForward
}

// Play starts forward playback, rewinding first when configured or when a
// stopped sequence sits at its end.
func (s *Sequencer) Play() {
	s.start(false)
}

// Reverse starts backward playback, jumping to the end first when a stopped
// sequence sits at 0.
func (s *Sequencer) Reverse() {
	s.start(true)
}

func (s *Sequencer) start(reverse bool) {
	if s.playing && !s.paused && s.reverse == reverse {
		return
	}
	s.bindAll()

	if !s.playing {
		dur := s.Duration()
		switch {
		case !reverse && (s.settings.RewindOnPlay || s.pos >= dur):
			s.update(0, true)
		case reverse && (s.settings.RewindOnPlay || s.pos <= 0):
			s.update(dur, true)
		}
	}

	s.playing, s.paused, s.reverse = true, false, reverse
	s.log.Debug("play", "sequence", s.data.Name, "position", s.pos, "reverse", reverse)
}

// Pause toggles between playing and paused.
func (s *Sequencer) Pause() {
	if !s.playing {
		return
	}
	s.paused = !s.paused
	s.log.Debug("pause", "sequence", s.data.Name, "paused", s.paused)
}

// Stop tears down every group instance, restoring saved state.
func (s *Sequencer) Stop() {
	if s.bound {
		s.unbindAll(true)
	}
	s.playing, s.paused = false, false
	s.log.Debug("stop", "sequence", s.data.Name, "position", s.pos)
}

func (s *Sequencer) ChangeDirection() {
	if s.playing {
		s.reverse = !s.reverse
	}
}

// Tick advances playback by dt seconds scaled by the rate. It reports true
// once the sequencer is stopped.
func (s *Sequencer) Tick(dt float64) bool {
	if !s.playing {
		return true
	}
	if s.paused || dt <= 0 {
		return false
	}

	delta := dt * s.settings.Rate
	dur := s.Duration()
	if s.reverse {
		return s.tickReverse(s.pos-delta, dur)
	}
	return s.tickForward(s.pos+delta, dur)
}

func (s *Sequencer) tickForward(next, dur float64) bool {
	if s.settings.Loop && dur > 0 {
		for next > dur {
			s.update(dur, false)
			s.wrap(0)
			next -= dur
		}
		s.update(next, false)
		return false
	}
	if next >= dur {
		s.update(dur, false)
		s.Stop()
		return true
	}
	s.update(next, false)
	return false
}

func (s *Sequencer) tickReverse(next, dur float64) bool {
	if s.settings.Loop && dur > 0 {
		for next < 0 {
			s.update(0, false)
			s.wrap(dur)
			next += dur
		}
		s.update(next, false)
		return false
	}
	if next <= 0 {
		s.update(0, false)
		s.Stop()
		return true
	}
	s.update(next, false)
	return false
}

func (s *Sequencer) wrap(to float64) {
	if s.settings.ResetInitialOnLoop {
		s.resetInitial()
	}
	s.apply(step{t: to, jump: true, reversed: to < s.pos, wrap: true})
	for _, fn := range s.looped {
		fn()
	}
}

// SetPosition moves the cursor to t. While stopped the groups are bound for
// the update and released afterwards without restoring, so the evaluated
// state stays on the entities.
func (s *Sequencer) SetPosition(t float64, isJump bool) {
	if s.bound {
		s.update(t, isJump)
		return
	}
	s.bindAll()
	s.update(t, isJump)
	s.unbindAll(false)
}

// Preview applies the sequence state at t without firing events, audio,
// notifies or global parameters.
func (s *Sequencer) Preview(t float64) {
	if !s.bound {
		s.bindAll()
		defer s.unbindAll(false)
	}
	s.apply(step{t: s.clamp(t), jump: true, reversed: t < s.pos, preview: true})
}

func (s *Sequencer) update(t float64, jump bool) {
	t = s.clamp(t)
	s.UpdateInterp(t, jump)
}

func (s *Sequencer) clamp(t float64) float64 {
	return math.Max(0, math.Min(t, s.Duration()))
}

// UpdateInterp evaluates every bound track at t. Any move to an earlier
// position counts as reverse travel.
func (s *Sequencer) UpdateInterp(t float64, jump bool) {
	reversed := (s.playing && s.reverse) || t < s.pos
	s.apply(step{t: t, jump: jump, reversed: reversed})
}

func (s *Sequencer) apply(u step) {
	for _, gi := range s.groups {
		for _, ti := range gi.tracks {
			if !ti.track.Kind().PoseDominant() {
				s.updateTrack(gi, ti, u)
			}
		}
	}
	for _, gi := range s.groups {
		for _, ti := range gi.tracks {
			if ti.track.Kind().PoseDominant() {
				s.updateTrack(gi, ti, u)
			}
		}
	}
	for _, gi := range s.groups {
		s.applyWeights(gi, u.t)
	}

	if !u.preview && s.playing && !s.reverse {
		s.prefetch(u)
	}
	s.pos = u.t
}

// FindGroupInstance returns the instance bound to the entity, or nil.
func (s *Sequencer) FindGroupInstance(id host.EntityID) *GroupInstance {
	for _, gi := range s.groups {
		if gi.actor != nil && gi.actor.ID() == id {
			return gi
		}
	}
	return nil
}

func (s *Sequencer) FindGroupInstanceByName(name string) *GroupInstance {
	if i, ok := s.byName[name]; ok {
		return s.groups[i]
	}
	return nil
}

func (s *Sequencer) GroupInstances() []*GroupInstance {
	return s.groups
}

// GetAffectedEntities lists the entities the sequence drives, sorted by ID.
// When unbound the binder is asked directly.
func (s *Sequencer) GetAffectedEntities() []host.Actor {
	seen := make(map[host.EntityID]bool)
	var out []host.Actor
	add := func(a host.Actor) {
		if a == nil || seen[a.ID()] {
			return
		}
		seen[a.ID()] = true
		out = append(out, a)
	}

	if s.bound {
		for _, gi := range s.groups {
			add(gi.actor)
		}
	} else if s.bind != nil {
		for _, g := range s.data.Groups {
			if !g.Folder {
				add(s.bind(g))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ViewedGroup names the group the director views at the current position.
func (s *Sequencer) ViewedGroup() string {
	dir := s.data.Director()
	if dir == nil {
		return ""
	}
	tr := dir.DirectorTrack()
	if tr == nil {
		return dir.Name
	}
	name, _ := tr.ViewedGroup(s.pos, dir.Name)
	return name
}

func (s *Sequencer) groupActor(name string) host.Actor {
	if gi := s.FindGroupInstanceByName(name); gi != nil {
		return gi.actor
	}
	return nil
}
