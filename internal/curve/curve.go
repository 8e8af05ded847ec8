package curve

import (
	"errors"
	"fmt"
	"sort"
)

// Mode selects how a key blends into the next one.
type Mode int

const (
	Constant Mode = iota
	Linear
	CurveAuto
	CurveAutoClamped
	CurveUser
	CurveBreak
)

var modeNames = map[Mode]string{
	Constant:         "constant",
	Linear:           "linear",
	CurveAuto:        "auto",
	CurveAutoClamped: "auto_clamped",
	CurveUser:        "user",
	CurveBreak:       "break",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// IsCurve reports whether the mode uses the cubic evaluator.
func (m Mode) IsCurve() bool {
	return m == CurveAuto || m == CurveAutoClamped || m == CurveUser || m == CurveBreak
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return Constant, fmt.Errorf("unknown interpolation mode: %s", s)
}

// Method selects the tangent convention of a curve. It is stored per curve
// and must not change the evaluation of existing data.
type Method int

const (
	// TimeScaled tangents are per-second slopes scaled by segment length.
	TimeScaled Method = iota
	// Legacy tangents are used unscaled and auto-computed by symmetric difference.
	Legacy
)

func (m Method) String() string {
	if m == Legacy {
		return "legacy"
	}
	return "time_scaled"
}

var ErrKeyIndex = errors.New("curve: key index out of range")

type Key[T Value[T]] struct {
	Time          float64
	Value         T
	Mode          Mode
	ArriveTangent T
	LeaveTangent  T
}

// Curve is a time-ordered list of keys. Key times never decrease.
type Curve[T Value[T]] struct {
	Keys    []Key[T]
	Method  Method
	Tension float64
}

func (c *Curve[T]) Len() int { return len(c.Keys) }

// Eval returns the value at t, or def when the curve has no keys.
func (c *Curve[T]) Eval(t float64, def T) T {
	n := len(c.Keys)
	if n == 0 {
		return def
	}
	if n < 2 || t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if t >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}

	for i := 1; i < n; i++ {
		if t >= c.Keys[i].Time {
			continue
		}
		prev, next := c.Keys[i-1], c.Keys[i]
		diff := next.Time - prev.Time
		if diff <= 0 || prev.Mode == Constant {
			return prev.Value
		}
		alpha := (t - prev.Time) / diff
		if prev.Mode == Linear {
			return Lerp(prev.Value, next.Value, alpha)
		}
		return c.cubic(prev.Value, prev.LeaveTangent, next.Value, next.ArriveTangent, diff, alpha)
	}
	return c.Keys[n-1].Value
}

func (c *Curve[T]) cubic(p0, t0, p1, t1 T, diff, alpha float64) T {
	if c.Method == TimeScaled {
		return CubicInterp(p0, t0.Mul(diff), p1, t1.Mul(diff), alpha)
	}
	return CubicInterp(p0, t0, p1, t1, alpha)
}

// Segment returns the index of the key that starts the segment holding t,
// or -1 when t precedes the first key.
func (c *Curve[T]) Segment(t float64) int {
	return sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > t }) - 1
}

// AddKey inserts a key after any keys sharing its time and returns its index.
func (c *Curve[T]) AddKey(t float64, v T, mode Mode) int {
	idx := c.insert(Key[T]{Time: t, Value: v, Mode: mode})
	c.AutoSetTangents()
	return idx
}

func (c *Curve[T]) insert(k Key[T]) int {
	idx := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > k.Time })
	c.Keys = append(c.Keys, Key[T]{})
	copy(c.Keys[idx+1:], c.Keys[idx:])
	c.Keys[idx] = k
	return idx
}

// MoveKey changes a key's time, re-sorts and returns the key's new index.
func (c *Curve[T]) MoveKey(i int, t float64) (int, error) {
	if i < 0 || i >= len(c.Keys) {
		return i, ErrKeyIndex
	}
	k := c.Keys[i]
	c.Keys = append(c.Keys[:i], c.Keys[i+1:]...)
	k.Time = t
	idx := c.insert(k)
	c.AutoSetTangents()
	return idx, nil
}

func (c *Curve[T]) RemoveKey(i int) error {
	if i < 0 || i >= len(c.Keys) {
		return ErrKeyIndex
	}
	c.Keys = append(c.Keys[:i], c.Keys[i+1:]...)
	c.AutoSetTangents()
	return nil
}

func (c *Curve[T]) SetKeyValue(i int, v T) error {
	if i < 0 || i >= len(c.Keys) {
		return ErrKeyIndex
	}
	c.Keys[i].Value = v
	c.AutoSetTangents()
	return nil
}

// SetKeyMode changes the interpolation mode of a key.
func (c *Curve[T]) SetKeyMode(i int, mode Mode) error {
	if i < 0 || i >= len(c.Keys) {
		return ErrKeyIndex
	}
	c.Keys[i].Mode = mode
	c.AutoSetTangents()
	return nil
}

// SetKeyTangents stores user tangents. Auto keys become CurveUser so the
// next recompute keeps them.
func (c *Curve[T]) SetKeyTangents(i int, arrive, leave T) error {
	if i < 0 || i >= len(c.Keys) {
		return ErrKeyIndex
	}
	k := &c.Keys[i]
	if k.Mode == CurveAuto || k.Mode == CurveAutoClamped {
		k.Mode = CurveUser
	}
	if k.Mode == CurveUser {
		leave = arrive
	}
	k.ArriveTangent = arrive
	k.LeaveTangent = leave
	c.AutoSetTangents()
	return nil
}

// Sorted reports whether key times are non-decreasing.
func (c *Curve[T]) Sorted() bool {
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Time < c.Keys[i-1].Time {
			return false
		}
	}
	return true
}

// AutoSetTangents recomputes tangents of every auto, linear and constant key.
// User and break keys keep their authored tangents.
func (c *Curve[T]) AutoSetTangents() {
	n := len(c.Keys)
	var zero T
	for i := 0; i < n; i++ {
		prevIdx, nextIdx := i-1, i+1
		if prevIdx < 0 {
			prevIdx = 0
		}
		if nextIdx >= n {
			nextIdx = n - 1
		}
		this := &c.Keys[i]
		prev, next := c.Keys[prevIdx], c.Keys[nextIdx]

		switch this.Mode {
		case CurveAuto, CurveAutoClamped:
			if !prev.Mode.IsCurve() && prevIdx != i {
				this.ArriveTangent = prev.ArriveTangent
				this.LeaveTangent = prev.LeaveTangent
				continue
			}
			var tan T
			if c.Method == TimeScaled {
				tan = ComputeCurveTangent(prev.Time, prev.Value, this.Time, this.Value,
					next.Time, next.Value, c.Tension, this.Mode == CurveAutoClamped)
			} else {
				tan = LegacyAutoCalcTangent(prev.Value, this.Value, next.Value, c.Tension)
			}
			this.ArriveTangent = tan
			this.LeaveTangent = tan
		case Linear:
			tan := next.Value.Sub(this.Value)
			this.ArriveTangent = tan
			this.LeaveTangent = tan
		case Constant:
			this.ArriveTangent = zero
			this.LeaveTangent = zero
		}
	}
}
