package sequencer

import (
	"github.com/san-kum/seqsim/internal/host"
	"github.com/san-kum/seqsim/internal/timeline"
)

// updateSound starts the last key crossed on forward playback and keeps the
// running clip's levels current. Jumps silence the track.
func (s *Sequencer) updateSound(gi *GroupInstance, ti *TrackInstance, tr *timeline.SoundTrack, u step) {
	ap, ok := gi.actor.(host.AudioPlayer)
	if !ok || u.preview {
		return
	}
	st := &ti.sound

	if u.jump {
		if st.playing {
			ap.StopAudioClip()
			st.playing = false
		}
		return
	}

	if !u.reversed || tr.PlayOnReverse {
		if crossed := s.crossed(tr, ti.lastPos, u); len(crossed) > 0 {
			i := crossed[len(crossed)-1]
			k := tr.Keys[i]
			if st.playing {
				ap.StopAudioClip()
			}
			vol, pitch := tr.Levels(i, u.t)
			offset := 0.0
			if !u.reversed {
				offset = (u.t - k.Time) * clipRate(pitch)
			}
			ap.PlayAudioClip(k.Clip, vol, pitch, offset)
			st.playing, st.key = true, i
			return
		}
	}

	if !st.playing {
		return
	}
	k := tr.Keys[st.key]
	ended := false
	if u.reversed {
		ended = u.t < k.Time
	} else if length, ok := ap.ClipLength(k.Clip); ok {
		_, pitch := tr.Levels(st.key, u.t)
		ended = (u.t-k.Time)*clipRate(pitch) > length
	}
	if ended {
		ap.StopAudioClip()
		st.playing = false
		return
	}
	ap.AdjustAudioClip(tr.Levels(st.key, u.t))
}

// clipRate is how many seconds of clip play per second of timeline. Pitch
// speeds clips up; a non-positive pitch plays at normal speed.
func clipRate(pitch float64) float64 {
	if pitch <= 0 {
		return 1
	}
	return pitch
}

// updateAnim positions the clip active at t. On forward playback every whole
// loop crossed since the last update is replayed end to start so notifies
// inside it fire once per loop.
func (s *Sequencer) updateAnim(gi *GroupInstance, ti *TrackInstance, tr *timeline.AnimTrack, u step) {
	ap, ok := gi.actor.(host.AnimationPlayer)
	if !ok {
		return
	}
	length := timeline.ClipLengthFunc(ap.ClipLength)
	pos, ok := tr.ClipPositionAt(u.t, length)
	if !ok {
		return
	}

	req := host.AnimRequest{Slot: tr.Slot, Channel: ti.anim.channel, Clip: pos.Clip, Loop: pos.Loop}
	notify := !u.preview && !u.jump && !u.reversed && !tr.SkipNotifies

	if notify {
		k := tr.Keys[pos.Key]
		if loops := tr.LoopsBetween(pos.Key, ti.lastPos, u.t, length); loops > 0 {
			full, _ := length(k.Clip)
			for range loops {
				end, start := req, req
				end.Time, end.FireNotifies = full-k.EndOffset, true
				start.Time = k.StartOffset
				ap.PlayAnimationClip(end)
				ap.PlayAnimationClip(start)
			}
		}
	}

	req.Time, req.FireNotifies = pos.Time, notify
	ap.PlayAnimationClip(req)
}

// applyWeights pushes one blend weight per anim track, per slot, in the
// order the tracks were authored. Disabled tracks weigh nothing.
func (s *Sequencer) applyWeights(gi *GroupInstance, t float64) {
	ap, ok := gi.actor.(host.AnimationPlayer)
	if !ok {
		return
	}
	var slots []string
	weights := make(map[string][]float64)
	for _, ti := range gi.tracks {
		tr, ok := ti.track.(*timeline.AnimTrack)
		if !ok {
			continue
		}
		if _, seen := weights[tr.Slot]; !seen {
			slots = append(slots, tr.Slot)
		}
		w := 0.0
		if !tr.Disabled {
			w = tr.WeightAt(t)
		}
		weights[tr.Slot] = append(weights[tr.Slot], w)
	}
	for _, slot := range slots {
		ap.SetAnimationBlendWeights(slot, weights[slot])
	}
}
