package timeline

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/xform"
)

// MoveFrame is the space movement keys are stored in.
type MoveFrame int

const (
	// FrameWorld keys are absolute, or parent-relative when the entity is attached.
	FrameWorld MoveFrame = iota
	// FrameRelativeToInitial keys are offsets from the transform captured at bind.
	FrameRelativeToInitial
)

func (f MoveFrame) String() string {
	if f == FrameRelativeToInitial {
		return "relative_to_initial"
	}
	return "world"
}

// LookupKey slaves a movement key to another group's live transform.
type LookupKey struct {
	Time  float64
	Group string
}

// LookupFunc returns a group's current position and Euler rotation expressed
// in the movement track's frame.
type LookupFunc func(group string) (pos, euler mgl64.Vec3, ok bool)

// MoveTrack drives position and rotation. Pos, Euler and Lookup are parallel:
// same length, same key times.
type MoveTrack struct {
	TrackInfo
	Pos     curve.Curve[mgl64.Vec3]
	Euler   curve.Curve[mgl64.Vec3]
	Lookup  []LookupKey
	Frame   MoveFrame
	LookAt  string
	KeyMode curve.Mode
}

func NewMoveTrack(name string, frame MoveFrame) *MoveTrack {
	return &MoveTrack{
		TrackInfo: TrackInfo{Name: name},
		Frame:     frame,
		KeyMode:   curve.CurveAutoClamped,
	}
}

func (m *MoveTrack) Kind() Kind            { return KindMove }
func (m *MoveTrack) NumKeys() int          { return m.Pos.Len() }
func (m *MoveTrack) KeyTime(i int) float64 { return m.Pos.Keys[i].Time }

func (m *MoveTrack) relative() bool { return m.Frame == FrameRelativeToInitial }

// AddKey records the track's current shape at t. On a relative-to-initial
// track a key never lands before the identity key.
func (m *MoveTrack) AddKey(t float64) int {
	pos, euler := m.Eval(t, nil)
	return m.AddKeyValue(t, pos, xform.FromEuler(euler))
}

func (m *MoveTrack) AddKeyValue(t float64, pos mgl64.Vec3, rot xform.Rotator) int {
	return m.insert(t, pos, rot.Euler(), "", m.KeyMode)
}

func (m *MoveTrack) insert(t float64, pos, euler mgl64.Vec3, group string, mode curve.Mode) int {
	if m.relative() && m.NumKeys() > 0 && t < m.KeyTime(0) {
		t = m.KeyTime(0)
	}
	idx := m.Pos.AddKey(t, pos, mode)
	m.Euler.AddKey(t, euler, mode)
	m.Lookup = append(m.Lookup, LookupKey{})
	copy(m.Lookup[idx+1:], m.Lookup[idx:])
	m.Lookup[idx] = LookupKey{Time: t, Group: group}
	m.enforceIdentity()
	return idx
}

func (m *MoveTrack) RemoveKey(i int) error {
	if i < 0 || i >= m.NumKeys() {
		return ErrKeyIndex
	}
	if i == 0 && m.relative() && m.NumKeys() > 1 {
		return ErrImmovableKey
	}
	_ = m.Pos.RemoveKey(i)
	_ = m.Euler.RemoveKey(i)
	m.Lookup = append(m.Lookup[:i], m.Lookup[i+1:]...)
	m.enforceIdentity()
	return nil
}

func (m *MoveTrack) MoveKey(i int, t float64) (int, error) {
	if i < 0 || i >= m.NumKeys() {
		return i, ErrKeyIndex
	}
	if m.relative() && (i == 0 || t < m.KeyTime(0)) {
		return i, ErrImmovableKey
	}
	idx, _ := m.Pos.MoveKey(i, t)
	_, _ = m.Euler.MoveKey(i, t)
	lk := m.Lookup[i]
	lk.Time = t
	m.Lookup = append(m.Lookup[:i], m.Lookup[i+1:]...)
	m.Lookup = append(m.Lookup, LookupKey{})
	copy(m.Lookup[idx+1:], m.Lookup[idx:])
	m.Lookup[idx] = lk
	m.enforceIdentity()
	return idx, nil
}

// DuplicateKey copies key i to time t. On a relative-to-initial track the
// copy is placed after the identity key even when t equals its time, and
// a copy before the identity key is refused.
func (m *MoveTrack) DuplicateKey(i int, t float64) (int, error) {
	if i < 0 || i >= m.NumKeys() {
		return i, ErrKeyIndex
	}
	if m.relative() && t < m.KeyTime(0) {
		return i, ErrImmovableKey
	}
	return m.insert(t, m.Pos.Keys[i].Value, m.Euler.Keys[i].Value, m.Lookup[i].Group, m.Pos.Keys[i].Mode), nil
}

// SetKey overwrites the stored transform of key i.
func (m *MoveTrack) SetKey(i int, pos mgl64.Vec3, rot xform.Rotator) error {
	if i < 0 || i >= m.NumKeys() {
		return ErrKeyIndex
	}
	if i == 0 && m.relative() {
		return ErrImmovableKey
	}
	_ = m.Pos.SetKeyValue(i, pos)
	_ = m.Euler.SetKeyValue(i, rot.Euler())
	return nil
}

// SetLookup points key i at a group; an empty name clears it.
func (m *MoveTrack) SetLookup(i int, group string) error {
	if i < 0 || i >= len(m.Lookup) {
		return ErrKeyIndex
	}
	if i == 0 && m.relative() && group != "" {
		return ErrImmovableKey
	}
	m.Lookup[i].Group = group
	return nil
}

// enforceIdentity pins key 0 of a relative-to-initial track to the zero offset.
func (m *MoveTrack) enforceIdentity() {
	if !m.relative() || m.NumKeys() == 0 {
		return
	}
	var zero mgl64.Vec3
	if m.Pos.Keys[0].Value != zero {
		_ = m.Pos.SetKeyValue(0, zero)
	}
	if m.Euler.Keys[0].Value != zero {
		_ = m.Euler.SetKeyValue(0, zero)
	}
	if len(m.Lookup) > 0 {
		m.Lookup[0].Group = ""
	}
}

func (m *MoveTrack) HasLookups() bool {
	for _, lk := range m.Lookup {
		if lk.Group != "" {
			return true
		}
	}
	return false
}

// Eval returns position and Euler rotation at t in the track's frame.
// Lookup keys are resolved through resolve; unresolved ones keep their
// stored values.
func (m *MoveTrack) Eval(t float64, resolve LookupFunc) (pos, euler mgl64.Vec3) {
	var zero mgl64.Vec3
	if resolve == nil || !m.HasLookups() {
		return m.Pos.Eval(t, zero), m.Euler.Eval(t, zero)
	}

	type live struct {
		pos, euler mgl64.Vec3
		ok         bool
	}
	resolved := make([]live, len(m.Lookup))
	for i, lk := range m.Lookup {
		if lk.Group == "" {
			continue
		}
		p, e, ok := resolve(lk.Group)
		resolved[i] = live{p, e, ok}
	}

	posCurve := withLookups(&m.Pos, func(i int) (mgl64.Vec3, bool) { return resolved[i].pos, resolved[i].ok })
	eulerCurve := withLookups(&m.Euler, func(i int) (mgl64.Vec3, bool) { return resolved[i].euler, resolved[i].ok })
	return posCurve.Eval(t, zero), eulerCurve.Eval(t, zero)
}

// withLookups copies c, substitutes live values and recomputes tangents.
// Tangents at looked-up keys are zero on the first and last key and follow
// the curve's method elsewhere.
func withLookups(c *curve.Curve[mgl64.Vec3], live func(i int) (mgl64.Vec3, bool)) *curve.Curve[mgl64.Vec3] {
	out := &curve.Curve[mgl64.Vec3]{
		Method:  c.Method,
		Tension: c.Tension,
		Keys:    append([]curve.Key[mgl64.Vec3](nil), c.Keys...),
	}
	n := len(out.Keys)
	hit := make([]bool, n)
	for i := range out.Keys {
		if v, ok := live(i); ok {
			out.Keys[i].Value = v
			hit[i] = true
		}
	}
	out.AutoSetTangents()

	for i, k := range out.Keys {
		if !hit[i] || !k.Mode.IsCurve() {
			continue
		}
		var tan mgl64.Vec3
		if i > 0 && i < n-1 {
			prev, next := out.Keys[i-1], out.Keys[i+1]
			if out.Method == curve.TimeScaled {
				tan = curve.ComputeCurveTangent(prev.Time, prev.Value, k.Time, k.Value, next.Time, next.Value,
					out.Tension, k.Mode == curve.CurveAutoClamped)
			} else {
				tan = curve.LegacyAutoCalcTangent(prev.Value, k.Value, next.Value, out.Tension)
			}
		}
		out.Keys[i].ArriveTangent = tan
		out.Keys[i].LeaveTangent = tan
	}
	return out
}
