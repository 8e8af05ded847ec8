package metrics

import "github.com/san-kum/seqsim/internal/bake"

// EventCount counts fired events, optionally only those with one name.
type EventCount struct {
	name   string
	filter string
	count  int
}

func NewEventCount(filter string) *EventCount {
	name := "event_count"
	if filter != "" {
		name += ":" + filter
	}
	return &EventCount{name: name, filter: filter}
}

func (e *EventCount) Name() string {
	return e.name
}

func (e *EventCount) Observe(f bake.Frame) {
	for _, ev := range f.Fired {
		if e.filter == "" || ev.Name == e.filter {
			e.count++
		}
	}
}

func (e *EventCount) Value() float64 {
	return float64(e.count)
}

func (e *EventCount) Reset() {
	e.count = 0
}
