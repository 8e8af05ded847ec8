package metrics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/bake"
)

// PathLength sums the distance an entity travels between frames.
type PathLength struct {
	name   string
	entity string
	last   mgl64.Vec3
	seen   bool
	total  float64
}

func NewPathLength(entity string) *PathLength {
	return &PathLength{
		name:   "path_length:" + entity,
		entity: entity,
	}
}

func (p *PathLength) Name() string {
	return p.name
}

func (p *PathLength) Observe(f bake.Frame) {
	s, ok := f.Sample(p.entity)
	if !ok {
		return
	}
	if p.seen {
		p.total += s.Position.Sub(p.last).Len()
	}
	p.last, p.seen = s.Position, true
}

func (p *PathLength) Value() float64 {
	return p.total
}

func (p *PathLength) Reset() {
	p.total = 0
	p.seen = false
}

// MaxSpeed is the largest per-frame speed of an entity.
type MaxSpeed struct {
	name     string
	entity   string
	last     mgl64.Vec3
	lastTime float64
	seen     bool
	max      float64
}

func NewMaxSpeed(entity string) *MaxSpeed {
	return &MaxSpeed{
		name:   "max_speed:" + entity,
		entity: entity,
	}
}

func (m *MaxSpeed) Name() string {
	return m.name
}

func (m *MaxSpeed) Observe(f bake.Frame) {
	s, ok := f.Sample(m.entity)
	if !ok {
		return
	}
	if m.seen && f.Time > m.lastTime {
		if v := s.Position.Sub(m.last).Len() / (f.Time - m.lastTime); v > m.max {
			m.max = v
		}
	}
	m.last, m.lastTime, m.seen = s.Position, f.Time, true
}

func (m *MaxSpeed) Value() float64 {
	return m.max
}

func (m *MaxSpeed) Reset() {
	m.max = 0
	m.seen = false
}
