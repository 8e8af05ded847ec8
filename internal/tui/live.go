package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/viz"
)

const (
	liveWidth   = 60
	liveHeight  = 16
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a bake observer that redraws a top-down map of the scene
// at most frameRate times per second.
type LiveRenderer struct {
	out       io.Writer
	name      string
	frameRate int
	bounds    *viz.Bounds
	pace      time.Duration
	lastFrame time.Time
	trails    map[string][]mgl64.Vec3
	frames    int
}

func NewLiveRenderer(out io.Writer, name string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		name:      name,
		frameRate: frameRate,
		trails:    make(map[string][]mgl64.Vec3),
	}
}

// SetBounds fixes the map area. By default it fits the trails seen so far.
func (r *LiveRenderer) SetBounds(b viz.Bounds) { r.bounds = &b }

// SetPace sleeps d after each step so playback runs near real time.
func (r *LiveRenderer) SetPace(d time.Duration) { r.pace = d }

func (r *LiveRenderer) OnStep(f bake.Frame) {
	if r.pace > 0 {
		time.Sleep(r.pace)
	}
	for _, s := range f.Samples {
		trail := append(r.trails[s.Entity], s.Position)
		if len(trail) > 50 {
			trail = trail[1:]
		}
		r.trails[s.Entity] = trail
	}

	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.frames++
	fmt.Fprint(r.out, r.Render(f))
}

// Render draws f with the trails seen so far.
func (r *LiveRenderer) Render(f bake.Frame) string {
	var bounds viz.Bounds
	if r.bounds != nil {
		bounds = *r.bounds
	} else {
		var all []mgl64.Vec3
		for _, trail := range r.trails {
			all = append(all, trail...)
		}
		bounds = viz.FitBounds(all...)
	}
	m := viz.NewMap(liveWidth, liveHeight, bounds)
	for _, trail := range r.trails {
		m.Path(trail)
	}
	for _, s := range f.Samples {
		if s.Visible {
			m.Mark(s.Position, entityRune(s.Entity))
		}
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  pos=%.2fs", r.name, f.Time, f.Position))
	if f.View != "" {
		b.WriteString("  view=" + f.View)
	}
	b.WriteString("\n  " + strings.Repeat("-", liveWidth) + "\n")
	for _, row := range strings.Split(strings.TrimRight(m.String(), "\n"), "\n") {
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	for _, ev := range f.Fired {
		b.WriteString(fmt.Sprintf("  ! %s/%s\n", ev.Group, ev.Name))
	}
	return b.String()
}

// Frames is the number of frames drawn.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
