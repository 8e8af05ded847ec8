package metrics

import "github.com/san-kum/seqsim/internal/bake"

// CutCount counts changes of the viewed entity.
type CutCount struct {
	name  string
	last  string
	seen  bool
	count int
}

func NewCutCount() *CutCount {
	return &CutCount{name: "cut_count"}
}

func (c *CutCount) Name() string {
	return c.name
}

func (c *CutCount) Observe(f bake.Frame) {
	if c.seen && f.View != c.last {
		c.count++
	}
	c.last, c.seen = f.View, true
}

func (c *CutCount) Value() float64 {
	return float64(c.count)
}

func (c *CutCount) Reset() {
	c.count = 0
	c.seen = false
	c.last = ""
}
