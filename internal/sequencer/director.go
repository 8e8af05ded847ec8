package sequencer

import (
	"math"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
)

// updateDirector points the camera at the viewed group's entity. The
// viewpoint in place before the first cut is remembered and returns when
// the director views itself again.
func (s *Sequencer) updateDirector(gi *GroupInstance, ti *TrackInstance, tr *timeline.DirectorTrack, u step) {
	cam, ok := gi.actor.(host.CameraController)
	if !ok {
		return
	}
	st := &ti.director

	name, transition := tr.ViewedGroup(u.t, gi.group.Name)
	var target host.Actor
	if name != gi.group.Name {
		target = s.groupActor(name)
	}

	if target != nil && target.ID() != gi.actor.ID() {
		cur := cam.CameraViewpoint()
		if cur != nil && cur.ID() == target.ID() {
			return
		}
		if !st.saved {
			st.prev, st.saved = cur, true
		}
		if u.jump {
			transition = 0
		}
		s.log.Debug("cut", "target", name, "time", u.t, "blend", transition)
		cam.SetCameraViewpoint(target, transition)
		return
	}

	if st.saved {
		cam.SetCameraViewpoint(st.prev, 0)
		st.prev, st.saved = nil, false
	}
}

// restoreCamera returns the remembered viewpoint unless the cut in effect
// asks to keep the camera where it is.
func (s *Sequencer) restoreCamera(gi *GroupInstance, ti *TrackInstance, tr *timeline.DirectorTrack) {
	st := &ti.director
	if !st.saved {
		return
	}
	if i := tr.CutAt(s.pos); i >= 0 && tr.Cuts[i].SkipCameraReset {
		return
	}
	if cam, ok := gi.actor.(host.CameraController); ok {
		cam.SetCameraViewpoint(st.prev, 0)
	}
	st.prev, st.saved = nil, false
}

// prefetch hints the streaming host about cut targets that enter the
// lookahead window on this update.
func (s *Sequencer) prefetch(u step) {
	if s.hinter == nil || s.settings.Lookahead <= 0 {
		return
	}
	dir := s.data.Director()
	if dir == nil {
		return
	}
	tr := dir.DirectorTrack()
	if tr == nil || tr.Info().Disabled {
		return
	}

	seen := math.Inf(-1)
	if !u.jump && u.t >= s.pos {
		seen = s.pos + s.settings.Lookahead
	}
	for _, c := range tr.Upcoming(u.t, s.settings.Lookahead) {
		if c.Time <= seen {
			continue
		}
		if a := s.groupActor(c.Target); a != nil {
			s.hinter.PrefetchAt(a.Position(), c.Time-u.t)
		}
	}
}
