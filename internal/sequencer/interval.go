package sequencer

import (
	"math"
	"slices"

	"github.com/san-kum/seqsim/internal/timeline"
)

// Keyed is the key-time view of a track.
type Keyed interface {
	NumKeys() int
	KeyTime(i int) float64
}

// Crossings returns the indices of the keys passed when moving from last to
// next, in order of travel. Forward travel takes keys in [lo, hi), reverse
// travel takes (lo, hi], so a forward and a backward pass over the same
// range fire the same keys. An end of the range that sits on 0 or on
// duration is widened by eps so boundary keys are not missed.
func Crossings(k Keyed, last, next, duration float64, reversed bool, eps float64) []int {
	lo, hi := math.Min(last, next), math.Max(last, next)
	if lo == hi {
		return nil
	}
	if lo <= 0 {
		lo -= eps
	}
	if hi >= duration {
		hi += eps
	}

	var out []int
	for i := 0; i < k.NumKeys(); i++ {
		t := k.KeyTime(i)
		if reversed {
			if lo < t && t <= hi {
				out = append(out, i)
			}
		} else if lo <= t && t < hi {
			out = append(out, i)
		}
	}
	if reversed {
		slices.Reverse(out)
	}
	return out
}

// step is one evaluation request.
type step struct {
	t        float64
	jump     bool
	reversed bool
	preview  bool
	// wrap resets the cursor to the far end of a loop. Nothing is crossed.
	wrap bool
}

// firing decides which kinds of discrete keys may fire on this step.
// State keys and events obey the track's direction flags; triggers only
// care about jumps.
func (s *Sequencer) firing(f timeline.Firing, u step) (states, triggers bool) {
	if u.preview || u.wrap {
		return false, false
	}
	states = (!u.jump || (f.FireWhenJumpingForwards && !u.reversed)) &&
		((!u.reversed && f.FireWhenForwards) || (u.reversed && f.FireWhenBackwards))
	triggers = !u.jump || s.settings.AllowTriggersWhileJumping
	return states, triggers
}

func (s *Sequencer) crossed(k Keyed, last float64, u step) []int {
	return Crossings(k, last, u.t, s.Duration(), u.reversed, s.settings.BoundaryEpsilon)
}
