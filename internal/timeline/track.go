package timeline

import (
	"fmt"
	"sort"

	"github.com/san-kum/seqsim/internal/curve"
)

// Kind tags the variant of a track.
type Kind int

const (
	KindMove Kind = iota
	KindFloatProp
	KindVectorProp
	KindColorProp
	KindToggle
	KindVisibility
	KindEvent
	KindSound
	KindAnimControl
	KindDirector
	KindFade
	KindSlomo
	KindAudioMaster
)

var kindNames = []string{
	"move", "float_prop", "vector_prop", "color_prop", "toggle", "visibility",
	"event", "sound", "anim", "director", "fade", "slomo", "audio_master",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown track kind: %s", s)
}

// PoseDominant reports whether tracks of this kind can overwrite a whole pose
// and so must update after every other track of the frame.
func (k Kind) PoseDominant() bool {
	return k == KindAnimControl
}

// Track is one authored channel. The concrete types in this package are the
// only implementations; the sequencer switches on them.
type Track interface {
	Kind() Kind
	Info() *TrackInfo
	NumKeys() int
	KeyTime(i int) float64
	// AddKey inserts a key at t with the track's default payload.
	AddKey(t float64) int
	RemoveKey(i int) error
	MoveKey(i int, t float64) (int, error)
	DuplicateKey(i int, t float64) (int, error)
}

// TrackInfo is shared by every track kind.
type TrackInfo struct {
	Name     string
	Disabled bool
}

func (ti *TrackInfo) Info() *TrackInfo { return ti }

// Firing holds the direction policy of discrete tracks.
type Firing struct {
	FireWhenForwards        bool
	FireWhenBackwards       bool
	FireWhenJumpingForwards bool
	// InvertOnReverse swaps boolean keys when travelling backwards.
	InvertOnReverse bool
}

func DefaultFiring() Firing {
	return Firing{FireWhenForwards: true, FireWhenBackwards: true}
}

// Channel is a single-curve key set shared by property and global tracks.
type Channel[T curve.Value[T]] struct {
	Curve   curve.Curve[T]
	KeyMode curve.Mode
}

func (c *Channel[T]) NumKeys() int          { return c.Curve.Len() }
func (c *Channel[T]) KeyTime(i int) float64 { return c.Curve.Keys[i].Time }

// AddKey inserts the curve's current value at t, leaving the shape unchanged.
func (c *Channel[T]) AddKey(t float64) int {
	var zero T
	return c.Curve.AddKey(t, c.Curve.Eval(t, zero), c.KeyMode)
}

func (c *Channel[T]) AddKeyValue(t float64, v T) int {
	return c.Curve.AddKey(t, v, c.KeyMode)
}

func (c *Channel[T]) RemoveKey(i int) error {
	return mapCurveErr(c.Curve.RemoveKey(i))
}

func (c *Channel[T]) MoveKey(i int, t float64) (int, error) {
	idx, err := c.Curve.MoveKey(i, t)
	return idx, mapCurveErr(err)
}

func (c *Channel[T]) DuplicateKey(i int, t float64) (int, error) {
	if i < 0 || i >= c.Curve.Len() {
		return i, ErrKeyIndex
	}
	k := c.Curve.Keys[i]
	return c.Curve.AddKey(t, k.Value, k.Mode), nil
}

func mapCurveErr(err error) error {
	if err == curve.ErrKeyIndex {
		return ErrKeyIndex
	}
	return err
}

// timed is a discrete key with a time stamp.
type timed[K any] interface {
	keyTime() float64
	withTime(float64) K
}

func insertKey[K timed[K]](keys []K, k K) ([]K, int) {
	idx := sort.Search(len(keys), func(i int) bool { return keys[i].keyTime() > k.keyTime() })
	var zero K
	keys = append(keys, zero)
	copy(keys[idx+1:], keys[idx:])
	keys[idx] = k
	return keys, idx
}

func removeKey[K any](keys []K, i int) ([]K, error) {
	if i < 0 || i >= len(keys) {
		return keys, ErrKeyIndex
	}
	return append(keys[:i], keys[i+1:]...), nil
}

func moveKey[K timed[K]](keys []K, i int, t float64) ([]K, int, error) {
	if i < 0 || i >= len(keys) {
		return keys, i, ErrKeyIndex
	}
	k := keys[i].withTime(t)
	keys = append(keys[:i], keys[i+1:]...)
	keys, idx := insertKey(keys, k)
	return keys, idx, nil
}

func duplicateKey[K timed[K]](keys []K, i int, t float64) ([]K, int, error) {
	if i < 0 || i >= len(keys) {
		return keys, i, ErrKeyIndex
	}
	keys, idx := insertKey(keys, keys[i].withTime(t))
	return keys, idx, nil
}

func keysSorted[K timed[K]](keys []K) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i].keyTime() < keys[i-1].keyTime() {
			return false
		}
	}
	return true
}

// lastAtOrBefore returns the index of the last key with time <= t, or -1.
func lastAtOrBefore[K timed[K]](keys []K, t float64) int {
	return sort.Search(len(keys), func(i int) bool { return keys[i].keyTime() > t }) - 1
}
