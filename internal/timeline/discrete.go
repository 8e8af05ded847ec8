package timeline

import "fmt"

type ToggleAction int

const (
	ToggleOff ToggleAction = iota
	ToggleOn
	// ToggleTrigger fires a one-shot and carries no on/off state.
	ToggleTrigger
)

func (a ToggleAction) String() string {
	switch a {
	case ToggleOn:
		return "on"
	case ToggleTrigger:
		return "trigger"
	}
	return "off"
}

type ToggleKey struct {
	Time   float64
	Action ToggleAction
}

func (k ToggleKey) keyTime() float64             { return k.Time }
func (k ToggleKey) withTime(t float64) ToggleKey { k.Time = t; return k }

// ToggleTrack switches an activatable entity on and off.
type ToggleTrack struct {
	TrackInfo
	Firing
	Keys []ToggleKey
}

func NewToggleTrack(name string) *ToggleTrack {
	return &ToggleTrack{TrackInfo: TrackInfo{Name: name}, Firing: DefaultFiring()}
}

func (*ToggleTrack) Kind() Kind              { return KindToggle }
func (t *ToggleTrack) NumKeys() int          { return len(t.Keys) }
func (t *ToggleTrack) KeyTime(i int) float64 { return t.Keys[i].Time }
func (t *ToggleTrack) AddKey(at float64) int { return t.AddToggle(at, ToggleOn) }
func (t *ToggleTrack) RemoveKey(i int) (err error) {
	t.Keys, err = removeKey(t.Keys, i)
	return err
}

func (t *ToggleTrack) AddToggle(at float64, action ToggleAction) int {
	var idx int
	t.Keys, idx = insertKey(t.Keys, ToggleKey{Time: at, Action: action})
	return idx
}

func (t *ToggleTrack) MoveKey(i int, at float64) (idx int, err error) {
	t.Keys, idx, err = moveKey(t.Keys, i, at)
	return idx, err
}

func (t *ToggleTrack) DuplicateKey(i int, at float64) (idx int, err error) {
	t.Keys, idx, err = duplicateKey(t.Keys, i, at)
	return idx, err
}

type VisibilityAction int

const (
	Hide VisibilityAction = iota
	Show
	// Toggle flips the current visibility; it is the trigger kind of this track.
	Toggle
)

func (a VisibilityAction) String() string {
	switch a {
	case Show:
		return "show"
	case Toggle:
		return "toggle"
	}
	return "hide"
}

type ConditionKind int

const (
	Always ConditionKind = iota
	IfFlag
	UnlessFlag
)

// Condition gates a visibility key on a host flag.
type Condition struct {
	Kind ConditionKind
	Flag string
}

// Holds evaluates the condition against flag.
func (c Condition) Holds(flag func(string) bool) bool {
	switch c.Kind {
	case IfFlag:
		return flag != nil && flag(c.Flag)
	case UnlessFlag:
		return flag == nil || !flag(c.Flag)
	}
	return true
}

type VisibilityKey struct {
	Time      float64
	Action    VisibilityAction
	Condition Condition
}

func (k VisibilityKey) keyTime() float64                 { return k.Time }
func (k VisibilityKey) withTime(t float64) VisibilityKey { k.Time = t; return k }

// VisibilityTrack shows and hides the bound entity.
type VisibilityTrack struct {
	TrackInfo
	Firing
	Keys []VisibilityKey
}

func NewVisibilityTrack(name string) *VisibilityTrack {
	return &VisibilityTrack{TrackInfo: TrackInfo{Name: name}, Firing: DefaultFiring()}
}

func (*VisibilityTrack) Kind() Kind              { return KindVisibility }
func (v *VisibilityTrack) NumKeys() int          { return len(v.Keys) }
func (v *VisibilityTrack) KeyTime(i int) float64 { return v.Keys[i].Time }
func (v *VisibilityTrack) AddKey(at float64) int { return v.AddVisibility(at, Show, Condition{}) }
func (v *VisibilityTrack) RemoveKey(i int) (err error) {
	v.Keys, err = removeKey(v.Keys, i)
	return err
}

func (v *VisibilityTrack) AddVisibility(at float64, action VisibilityAction, cond Condition) int {
	var idx int
	v.Keys, idx = insertKey(v.Keys, VisibilityKey{Time: at, Action: action, Condition: cond})
	return idx
}

func (v *VisibilityTrack) MoveKey(i int, at float64) (idx int, err error) {
	v.Keys, idx, err = moveKey(v.Keys, i, at)
	return idx, err
}

func (v *VisibilityTrack) DuplicateKey(i int, at float64) (idx int, err error) {
	v.Keys, idx, err = duplicateKey(v.Keys, i, at)
	return idx, err
}

type EventKey struct {
	Time float64
	Name string
}

func (k EventKey) keyTime() float64            { return k.Time }
func (k EventKey) withTime(t float64) EventKey { k.Time = t; return k }

// EventTrack emits named markers to the sequencer's event sink.
type EventTrack struct {
	TrackInfo
	Firing
	Keys []EventKey
}

func NewEventTrack(name string) *EventTrack {
	return &EventTrack{TrackInfo: TrackInfo{Name: name}, Firing: DefaultFiring()}
}

func (*EventTrack) Kind() Kind              { return KindEvent }
func (e *EventTrack) NumKeys() int          { return len(e.Keys) }
func (e *EventTrack) KeyTime(i int) float64 { return e.Keys[i].Time }

func (e *EventTrack) AddKey(at float64) int {
	return e.AddEvent(at, fmt.Sprintf("event%d", len(e.Keys)))
}

func (e *EventTrack) AddEvent(at float64, name string) int {
	var idx int
	e.Keys, idx = insertKey(e.Keys, EventKey{Time: at, Name: name})
	return idx
}

func (e *EventTrack) RemoveKey(i int) (err error) {
	e.Keys, err = removeKey(e.Keys, i)
	return err
}

func (e *EventTrack) MoveKey(i int, at float64) (idx int, err error) {
	e.Keys, idx, err = moveKey(e.Keys, i, at)
	return idx, err
}

func (e *EventTrack) DuplicateKey(i int, at float64) (idx int, err error) {
	e.Keys, idx, err = duplicateKey(e.Keys, i, at)
	return idx, err
}

// EventNames lists the distinct event names in key order.
func (e *EventTrack) EventNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range e.Keys {
		if !seen[k.Name] {
			seen[k.Name] = true
			names = append(names, k.Name)
		}
	}
	return names
}
