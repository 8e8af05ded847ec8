package timeline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
)

type SoundKey struct {
	Time   float64
	Clip   string
	Volume float64
	Pitch  float64
}

func (k SoundKey) keyTime() float64            { return k.Time }
func (k SoundKey) withTime(t float64) SoundKey { k.Time = t; return k }

// SoundTrack starts audio clips on the bound entity. A clip plays until the
// next key starts, its known length runs out, or the playback jumps.
type SoundTrack struct {
	TrackInfo
	Keys []SoundKey
	// Scale multiplies volume (X) and pitch (Y) over time.
	Scale         curve.Curve[mgl64.Vec2]
	PlayOnReverse bool
	ContinueOnEnd bool
}

func NewSoundTrack(name string) *SoundTrack {
	return &SoundTrack{TrackInfo: TrackInfo{Name: name}}
}

func (*SoundTrack) Kind() Kind              { return KindSound }
func (s *SoundTrack) NumKeys() int          { return len(s.Keys) }
func (s *SoundTrack) KeyTime(i int) float64 { return s.Keys[i].Time }

func (s *SoundTrack) AddKey(at float64) int {
	return s.AddSound(at, "", 1, 1)
}

func (s *SoundTrack) AddSound(at float64, clip string, volume, pitch float64) int {
	var idx int
	s.Keys, idx = insertKey(s.Keys, SoundKey{Time: at, Clip: clip, Volume: volume, Pitch: pitch})
	return idx
}

func (s *SoundTrack) RemoveKey(i int) (err error) {
	s.Keys, err = removeKey(s.Keys, i)
	return err
}

func (s *SoundTrack) MoveKey(i int, at float64) (idx int, err error) {
	s.Keys, idx, err = moveKey(s.Keys, i, at)
	return idx, err
}

func (s *SoundTrack) DuplicateKey(i int, at float64) (idx int, err error) {
	s.Keys, idx, err = duplicateKey(s.Keys, i, at)
	return idx, err
}

// KeyAt returns the key active at t, or -1 before the first key.
func (s *SoundTrack) KeyAt(t float64) int {
	return lastAtOrBefore(s.Keys, t)
}

// Levels returns the volume and pitch of key i at t.
func (s *SoundTrack) Levels(i int, t float64) (volume, pitch float64) {
	scale := s.Scale.Eval(t, mgl64.Vec2{1, 1})
	return s.Keys[i].Volume * scale[0], s.Keys[i].Pitch * scale[1]
}

// AnimKey places a clip on the track's slot channel from Time onward.
type AnimKey struct {
	Time        float64
	Clip        string
	StartOffset float64
	EndOffset   float64
	PlayRate    float64
	Looping     bool
	Reverse     bool
}

func (k AnimKey) keyTime() float64           { return k.Time }
func (k AnimKey) withTime(t float64) AnimKey { k.Time = t; return k }

func (k AnimKey) rate() float64 {
	if k.PlayRate <= 0 {
		return 1
	}
	return k.PlayRate
}

// ClipLengthFunc reports a clip's full length.
type ClipLengthFunc func(clip string) (float64, bool)

// minClipSpan keeps looping maths away from zero-length clips.
const minClipSpan = 0.01

// AnimTrack drives one channel of an animation slot. It updates after all
// other tracks since a clip sample can overwrite the whole pose.
type AnimTrack struct {
	TrackInfo
	Slot   string
	Weight curve.Curve[curve.Scalar]
	Keys   []AnimKey
	// SkipNotifies stops clip notifies from firing during playback.
	SkipNotifies bool
}

func NewAnimTrack(name, slot string) *AnimTrack {
	return &AnimTrack{TrackInfo: TrackInfo{Name: name}, Slot: slot}
}

func (*AnimTrack) Kind() Kind              { return KindAnimControl }
func (a *AnimTrack) NumKeys() int          { return len(a.Keys) }
func (a *AnimTrack) KeyTime(i int) float64 { return a.Keys[i].Time }

func (a *AnimTrack) AddKey(at float64) int {
	return a.AddClip(AnimKey{Time: at, PlayRate: 1})
}

func (a *AnimTrack) AddClip(k AnimKey) int {
	var idx int
	a.Keys, idx = insertKey(a.Keys, k)
	return idx
}

func (a *AnimTrack) RemoveKey(i int) (err error) {
	a.Keys, err = removeKey(a.Keys, i)
	return err
}

func (a *AnimTrack) MoveKey(i int, at float64) (idx int, err error) {
	a.Keys, idx, err = moveKey(a.Keys, i, at)
	return idx, err
}

func (a *AnimTrack) DuplicateKey(i int, at float64) (idx int, err error) {
	a.Keys, idx, err = duplicateKey(a.Keys, i, at)
	return idx, err
}

// WeightAt is the channel blend weight at t. A track without weight keys
// contributes fully.
func (a *AnimTrack) WeightAt(t float64) float64 {
	return float64(a.Weight.Eval(t, 1))
}

// ClipSpan is the playable length of key i between its offsets.
func (a *AnimTrack) ClipSpan(i int, length ClipLengthFunc) (span float64, known bool) {
	k := a.Keys[i]
	full, ok := clipLength(k.Clip, length)
	if !ok {
		return 0, false
	}
	return math.Max(full-(k.StartOffset+k.EndOffset), minClipSpan), true
}

// ClipPosition is the clip state at a sequence time.
type ClipPosition struct {
	Key  int
	Clip string
	Time float64
	Loop bool
}

// ClipPositionAt resolves which clip plays at t and where inside it. Before
// the first key the first clip rests at its start (or its end when reversed).
func (a *AnimTrack) ClipPositionAt(t float64, length ClipLengthFunc) (ClipPosition, bool) {
	if len(a.Keys) == 0 {
		return ClipPosition{Key: -1}, false
	}

	if t < a.Keys[0].Time {
		k := a.Keys[0]
		pos := k.StartOffset
		if k.Reverse {
			if full, ok := clipLength(k.Clip, length); ok {
				pos = full - k.EndOffset
			}
		}
		return ClipPosition{Key: 0, Clip: k.Clip, Time: pos, Loop: k.Looping}, true
	}

	i := lastAtOrBefore(a.Keys, t)
	k := a.Keys[i]
	pos := (t - k.Time) * k.rate()
	if full, ok := clipLength(k.Clip, length); ok {
		span := math.Max(full-(k.StartOffset+k.EndOffset), minClipSpan)
		if k.Looping {
			pos = math.Mod(pos, span) + k.StartOffset
		} else {
			pos = clamp(pos+k.StartOffset, 0, full-k.EndOffset)
		}
		if k.Reverse {
			pos = (full - k.EndOffset) - (pos - k.StartOffset)
		}
	} else {
		pos += k.StartOffset
	}
	return ClipPosition{Key: i, Clip: k.Clip, Time: pos, Loop: k.Looping}, true
}

// LoopsBetween counts the whole loops key i completes between sequence
// times from and to.
func (a *AnimTrack) LoopsBetween(i int, from, to float64, length ClipLengthFunc) int {
	k := a.Keys[i]
	if !k.Looping || to <= from {
		return 0
	}
	span, ok := a.ClipSpan(i, length)
	if !ok {
		return 0
	}
	start := math.Max(from-k.Time, 0) * k.rate()
	end := math.Max(to-k.Time, 0) * k.rate()
	return int(math.Floor(end/span) - math.Floor(start/span))
}

func clipLength(clip string, length ClipLengthFunc) (float64, bool) {
	if length == nil || clip == "" {
		return 0, false
	}
	return length(clip)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}
