package sequencer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
)

// GroupInstance is the runtime binding of one group to one entity.
type GroupInstance struct {
	index  int
	group  *timeline.Group
	actor  host.Actor
	tracks []*TrackInstance
}

func (g *GroupInstance) Group() *timeline.Group   { return g.group }
func (g *GroupInstance) Name() string             { return g.group.Name }
func (g *GroupInstance) Tracks() []*TrackInstance { return g.tracks }

// Actor returns the bound entity, or nil when the group is unbound.
func (g *GroupInstance) Actor() host.Actor { return g.actor }

// TrackInstance holds the per-binding state of one track.
type TrackInstance struct {
	owner   int
	track   timeline.Track
	lastPos float64

	move     moveState
	prop     propState
	sound    soundState
	anim     animState
	director directorState
}

func (t *TrackInstance) Track() timeline.Track { return t.track }
func (t *TrackInstance) LastPosition() float64 { return t.lastPos }

type moveState struct {
	// initial is the entity transform captured at bind, relative to its
	// parent and without scale.
	initial mgl64.Mat4
}

type propState struct {
	apply   func(t float64)
	restore func()
}

type soundState struct {
	playing bool
	key     int
}

type animState struct {
	channel int
}

type directorState struct {
	prev  host.Actor
	saved bool
}

// bindAll creates group and track instances. Folder groups are skipped. An
// entity already claimed by an earlier group is not bound a second time.
func (s *Sequencer) bindAll() {
	if s.bound {
		return
	}
	s.groups = make([]*GroupInstance, 0, len(s.data.Groups))
	s.byName = make(map[string]int, len(s.data.Groups))
	claimed := make(map[host.EntityID]string)

	for _, g := range s.data.Groups {
		if g.Folder {
			continue
		}
		gi := &GroupInstance{index: len(s.groups), group: g}
		if s.bind != nil {
			gi.actor = s.bind(g)
		}
		if gi.actor != nil {
			id := gi.actor.ID()
			if first, dup := claimed[id]; dup {
				s.log.Warn("entity already bound by another group",
					"group", g.Name, "entity", gi.actor.Name(), "bound_by", first)
				gi.actor = nil
			} else {
				claimed[id] = g.Name
			}
		} else {
			s.log.Debug("group has no entity", "group", g.Name)
		}
		s.groups = append(s.groups, gi)
		s.byName[g.Name] = gi.index
	}

	// Tracks bind after every group exists so look-ups can find each other.
	for _, gi := range s.groups {
		slots := make(map[string]int)
		for _, tr := range gi.group.Tracks {
			ti := &TrackInstance{owner: gi.index, track: tr, lastPos: s.pos}
			s.initTrack(gi, ti, slots)
			gi.tracks = append(gi.tracks, ti)
		}
	}
	s.bound = true
}

func (s *Sequencer) initTrack(gi *GroupInstance, ti *TrackInstance, slots map[string]int) {
	switch tr := ti.track.(type) {
	case *timeline.MoveTrack:
		if gi.actor != nil {
			offset := mgl64.Ident4()
			if tr.Frame == timeline.FrameRelativeToInitial {
				offset = appliedOffset(tr, s.pos)
			}
			ti.move.initial = initialTransform(gi.actor, offset)
		}
	case *timeline.FloatPropTrack:
		ti.prop = bindFloat(s, gi, tr)
	case *timeline.VectorPropTrack:
		ti.prop = bindVector(s, gi, tr)
	case *timeline.ColorPropTrack:
		ti.prop = bindColor(s, gi, tr)
	case *timeline.AnimTrack:
		ti.anim.channel = slots[tr.Slot]
		slots[tr.Slot]++
	}
}

// unbindAll releases every instance. With restore set, saved property
// values go back when the settings ask for it and the camera returns to
// its previous viewpoint.
func (s *Sequencer) unbindAll(restore bool) {
	for _, gi := range s.groups {
		for _, ti := range gi.tracks {
			s.termTrack(gi, ti, restore)
		}
	}
	s.groups = nil
	s.byName = nil
	s.bound = false
}

func (s *Sequencer) termTrack(gi *GroupInstance, ti *TrackInstance, restore bool) {
	switch tr := ti.track.(type) {
	case *timeline.FloatPropTrack, *timeline.VectorPropTrack, *timeline.ColorPropTrack:
		if restore && s.settings.RestoreOnStop && ti.prop.restore != nil {
			ti.prop.restore()
		}
	case *timeline.SoundTrack:
		if ti.sound.playing && !(restore && tr.ContinueOnEnd) {
			if ap, ok := gi.actor.(host.AudioPlayer); ok {
				ap.StopAudioClip()
			}
		}
		ti.sound.playing = false
	case *timeline.DirectorTrack:
		if restore {
			s.restoreCamera(gi, ti, tr)
		}
	}
}

// updateTrack is the single dispatch point from track kind to behaviour.
func (s *Sequencer) updateTrack(gi *GroupInstance, ti *TrackInstance, u step) {
	if ti.track.Info().Disabled {
		ti.lastPos = u.t
		return
	}

	switch tr := ti.track.(type) {
	case *timeline.MoveTrack:
		s.updateMove(gi, ti, tr, u)
	case *timeline.FloatPropTrack, *timeline.VectorPropTrack, *timeline.ColorPropTrack:
		if ti.prop.apply != nil {
			ti.prop.apply(u.t)
		}
	case *timeline.ToggleTrack:
		s.updateToggle(gi, ti, tr, u)
	case *timeline.VisibilityTrack:
		s.updateVisibility(gi, ti, tr, u)
	case *timeline.EventTrack:
		s.updateEvents(gi, ti, tr, u)
	case *timeline.SoundTrack:
		s.updateSound(gi, ti, tr, u)
	case *timeline.AnimTrack:
		s.updateAnim(gi, ti, tr, u)
	case *timeline.DirectorTrack:
		s.updateDirector(gi, ti, tr, u)
	case *timeline.FadeTrack:
		if s.globalsAllowed(u) {
			s.globals.SetFade(tr.Amount(u.t))
		}
	case *timeline.SlomoTrack:
		if s.globalsAllowed(u) {
			s.globals.SetTimeDilation(tr.Scale(u.t))
		}
	case *timeline.AudioMasterTrack:
		if s.globalsAllowed(u) {
			s.globals.SetAudioMaster(tr.Levels(u.t))
		}
	}
	ti.lastPos = u.t
}

// globalsAllowed suppresses global parameters while previewing or while
// scrubbing a sequence that is not playing.
func (s *Sequencer) globalsAllowed(u step) bool {
	return s.globals != nil && !u.preview && !(u.jump && !s.playing)
}
