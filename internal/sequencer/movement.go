package sequencer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

// baseFrame is the entity's parent frame without scale, or identity.
func baseFrame(a host.Actor) mgl64.Mat4 {
	if parent, ok := a.ParentTransform(); ok {
		return xform.RemoveScaling(parent)
	}
	return mgl64.Ident4()
}

func actorMatrix(a host.Actor) mgl64.Mat4 {
	return xform.Transform(a.Position(), a.Rotation())
}

// initialTransform captures the entity's pose relative to its parent with
// offset, the part of the pose a track has already applied, taken out.
func initialTransform(a host.Actor, offset mgl64.Mat4) mgl64.Mat4 {
	return xform.RemoveScaling(baseFrame(a).Inv().Mul4(actorMatrix(a)).Mul4(offset.Inv()))
}

// appliedOffset is what a relative track left on its entity when the
// cursor was last at t. A stopped seek or a finished run leaves the entity
// there, and the next bind must not build on it. Lookup keys use their
// stored values.
func appliedOffset(tr *timeline.MoveTrack, t float64) mgl64.Mat4 {
	if tr.Disabled || tr.NumKeys() == 0 {
		return mgl64.Ident4()
	}
	p, e := tr.Eval(t, nil)
	return xform.Transform(p, xform.FromEuler(e))
}

// refFrame is the space the movement keys of tr are expressed in.
func refFrame(a host.Actor, ti *TrackInstance, tr *timeline.MoveTrack) mgl64.Mat4 {
	base := baseFrame(a)
	if tr.Frame == timeline.FrameRelativeToInitial {
		return base.Mul4(ti.move.initial)
	}
	return base
}

func (s *Sequencer) resetInitial() {
	for _, gi := range s.groups {
		if gi.actor == nil {
			continue
		}
		for _, ti := range gi.tracks {
			if tr, ok := ti.track.(*timeline.MoveTrack); ok && tr.Frame == timeline.FrameRelativeToInitial {
				ti.move.initial = initialTransform(gi.actor, mgl64.Ident4())
			}
		}
	}
}

func (s *Sequencer) updateMove(gi *GroupInstance, ti *TrackInstance, tr *timeline.MoveTrack, u step) {
	if gi.actor == nil || (tr.NumKeys() == 0 && tr.LookAt == "") {
		return
	}
	pos, rot := s.moveTransform(gi, ti, tr, u.t)
	gi.actor.SetPosition(pos)
	gi.actor.SetRotation(rot)
}

// moveTransform evaluates tr at t in world space. Whole turns of rotation
// are kept out of the matrix so they survive composition.
func (s *Sequencer) moveTransform(gi *GroupInstance, ti *TrackInstance, tr *timeline.MoveTrack, t float64) (mgl64.Vec3, xform.Rotator) {
	ref := refFrame(gi.actor, ti, tr)

	var pos mgl64.Vec3
	var rot xform.Rotator
	if tr.NumKeys() > 0 {
		p, e := tr.Eval(t, s.lookupResolver(gi, ref))
		winding, rem := xform.FromEuler(e).WindingAndRemainder()
		pos, rot = xform.Decompose(ref.Mul4(xform.Transform(p, rem)))
		rot = rot.Add(xform.FromEuler(xform.TransformNormal(ref, winding.Euler())))
	} else {
		pos, rot = gi.actor.Position(), gi.actor.Rotation()
	}

	if tr.LookAt != "" {
		if target := s.groupActor(tr.LookAt); target != nil && target != gi.actor {
			rot = xform.LookAt(pos, target.Position())
		}
	}
	return pos, rot
}

// lookupResolver expresses other groups' live transforms in the frame ref.
func (s *Sequencer) lookupResolver(self *GroupInstance, ref mgl64.Mat4) timeline.LookupFunc {
	inv := ref.Inv()
	return func(group string) (mgl64.Vec3, mgl64.Vec3, bool) {
		target := s.groupActor(group)
		if target == nil {
			s.log.Debug("lookup group not bound", "group", self.group.Name, "lookup", group)
			return mgl64.Vec3{}, mgl64.Vec3{}, false
		}
		pos, rot := xform.Decompose(inv.Mul4(actorMatrix(target)))
		return pos, rot.Euler(), true
	}
}

// CaptureKey overwrites movement key index key of the group's track with the
// entity's current transform, expressed in the track's frame.
func (s *Sequencer) CaptureKey(group string, track, key int) error {
	gi := s.FindGroupInstanceByName(group)
	if gi == nil || gi.actor == nil {
		return fmt.Errorf("%w: %s", ErrNotBound, group)
	}
	if track < 0 || track >= len(gi.tracks) {
		return fmt.Errorf("%w: track %d", timeline.ErrKeyIndex, track)
	}
	ti := gi.tracks[track]
	tr, ok := ti.track.(*timeline.MoveTrack)
	if !ok {
		return ErrWrongKind
	}
	local := refFrame(gi.actor, ti, tr).Inv().Mul4(actorMatrix(gi.actor))
	pos, rot := xform.Decompose(local)
	return tr.SetKey(key, pos, rot)
}
