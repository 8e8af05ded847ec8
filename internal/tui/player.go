package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/fixture"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/script"
	"github.com/san-kum/seqsim/internal/sequencer"
	"github.com/san-kum/seqsim/internal/viz"
)

const (
	frameInterval = 16 * time.Millisecond
	maxFrameDt    = 0.1
	eventLogSize  = 8
)

// Options configure a Player.
type Options struct {
	Settings  sequencer.Settings
	Theme     string
	ScrubStep float64
	Scripts   *script.Handlers
	Logger    *slog.Logger
}

// ReloadMsg swaps the playing sequence, keeping the playhead. Scripts, when
// set, replace the event handlers.
type ReloadMsg struct {
	Fixture *fixture.Fixture
	Scripts *script.Handlers
}

// ErrorMsg is shown in the status line until the next reload.
type ErrorMsg struct {
	Err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Player is a bubbletea model that plays one sequence in a live scene.
type Player struct {
	opts   Options
	fx     *fixture.Fixture
	world  *scene.World
	seq    *sequencer.Sequencer
	cam    *scene.Actor
	styles viz.Styles

	events *[]sequencer.Fired
	paths  map[string][]mgl64.Vec3
	bounds viz.Bounds
	cuts   []float64
	status string

	lastFrame time.Time
	width     int
	height    int
}

func NewPlayer(fx *fixture.Fixture, opts Options) (*Player, error) {
	if opts.ScrubStep <= 0 {
		opts.ScrubStep = 0.5
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	p := &Player{
		opts:   opts,
		styles: viz.NewStyles(viz.GetTheme(opts.Theme)),
		events: new([]sequencer.Fired),
		width:  80,
		height: 24,
	}
	if err := p.load(fx, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// load builds a fresh scene and sequencer for fx and seeks to pos.
func (p *Player) load(fx *fixture.Fixture, pos float64) error {
	w, err := scene.Build(fx.Scene)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	events := p.events
	opts := []sequencer.Option{
		sequencer.WithSettings(p.opts.Settings),
		sequencer.WithLogger(p.opts.Logger),
		sequencer.WithGlobals(w),
		sequencer.WithStreamingHinter(w),
		sequencer.WithConditions(w),
		sequencer.WithEventSink(func(f sequencer.Fired) {
			*events = append(*events, f)
			if len(*events) > eventLogSize {
				*events = (*events)[len(*events)-eventLogSize:]
			}
		}),
	}
	var seq *sequencer.Sequencer
	if p.opts.Scripts != nil {
		p.opts.Scripts.SetFlags(w)
		opts = append(opts, sequencer.WithEventSink(p.opts.Scripts.Sink(func() float64 { return seq.Position() })))
	}
	seq, err = sequencer.New(fx.Data, w.Binder(), opts...)
	if err != nil {
		return err
	}

	if p.seq != nil {
		p.seq.Stop()
	}
	p.fx, p.world, p.seq = fx, w, seq
	p.cam = bake.DirectorCamera(w, fx.Data)
	p.status = ""
	p.preview()
	if pos > 0 {
		seq.SetPosition(pos, true)
	}
	return nil
}

// preview bakes the sequence once in a separate scene for the ghost paths,
// the map bounds and the cut marks.
func (p *Player) preview() {
	p.paths = make(map[string][]mgl64.Vec3)
	p.cuts = p.cuts[:0]

	dur := p.fx.Data.Length()
	if dur <= 0 {
		p.bounds = viz.FitBounds()
		return
	}
	settings := p.opts.Settings
	settings.Loop = false
	settings.Rate = 1
	res, err := bake.New(p.fx).Run(context.Background(), bake.Config{Dt: dur / 100, Duration: dur, Settings: settings})
	if err != nil {
		p.opts.Logger.Warn("preview bake failed", "err", err)
		p.bounds = viz.FitBounds()
		return
	}

	var all []mgl64.Vec3
	for _, name := range res.Entities() {
		track := res.Track(name)
		p.paths[name] = track
		all = append(all, track...)
	}
	p.bounds = viz.FitBounds(all...)

	if g := p.fx.Data.Director(); g != nil {
		if dt := g.DirectorTrack(); dt != nil {
			for _, c := range dt.Cuts {
				p.cuts = append(p.cuts, c.Time/dur)
			}
		}
	}
}

func (p *Player) Sequencer() *sequencer.Sequencer { return p.seq }
func (p *Player) World() *scene.World             { return p.world }

func (p *Player) Init() tea.Cmd { return tick() }

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil
	case tickMsg:
		now := time.Time(msg)
		if !p.lastFrame.IsZero() {
			p.Advance(now.Sub(p.lastFrame).Seconds())
		}
		p.lastFrame = now
		return p, tick()
	case ReloadMsg:
		if msg.Scripts != nil {
			p.opts.Scripts = msg.Scripts
		}
		if err := p.load(msg.Fixture, p.seq.Position()); err != nil {
			p.status = "reload failed: " + err.Error()
		} else {
			p.status = "reloaded " + msg.Fixture.Data.Name
		}
		return p, nil
	case ErrorMsg:
		p.status = msg.Err.Error()
		return p, nil
	}
	return p, nil
}

// Advance ticks the sequencer by dt seconds of wall time.
func (p *Player) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	p.seq.Tick(min(dt, maxFrameDt))
}

func (p *Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := p.seq
	switch msg.String() {
	case "q", "ctrl+c":
		s.Stop()
		return p, tea.Quit
	case " ", "space":
		if s.State() == sequencer.Stopped {
			s.Play()
		} else {
			s.Pause()
		}
	case "r":
		s.Reverse()
	case "d":
		s.ChangeDirection()
	case "s":
		s.Stop()
	case "left":
		s.SetPosition(s.Position()-p.opts.ScrubStep, true)
	case "right":
		s.SetPosition(s.Position()+p.opts.ScrubStep, true)
	case "home":
		s.SetPosition(0, true)
	case "end":
		s.SetPosition(s.Duration(), true)
	case "t":
		p.styles = viz.NewStyles(viz.NextTheme(p.styles.Theme.Name))
	}
	return p, nil
}

func (p *Player) View() string {
	st := p.styles
	s := p.seq
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n  %s  %s\n", st.Title.Render(p.fx.Data.Name), st.State(s.State())))

	barWidth := max(p.width-24, 20)
	frac := 0.0
	if d := s.Duration(); d > 0 {
		frac = s.Position() / d
	}
	b.WriteString(fmt.Sprintf("  %s %s\n\n",
		st.Value.Render(viz.TimeBar(frac, barWidth, p.cuts)),
		st.Label.Render(fmt.Sprintf("%.2fs/%.2fs", s.Position(), s.Duration()))))

	frame := bake.Capture(p.world, p.cam, s.Position(), s.Position())

	m := viz.NewMap(max(p.width/2-4, 20), max(p.height-16, 6), p.bounds)
	for _, path := range p.paths {
		m.Path(path)
	}
	for _, smp := range frame.Samples {
		if smp.Visible {
			m.Mark(smp.Position, entityRune(smp.Entity))
		}
	}
	for _, row := range strings.Split(strings.TrimRight(m.String(), "\n"), "\n") {
		b.WriteString("  " + st.Label.Render(row) + "\n")
	}
	b.WriteString("\n")

	for _, smp := range frame.Samples {
		vis := " "
		if !smp.Visible {
			vis = st.Muted.Render("hidden")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			st.Value.Render(fmt.Sprintf("%-10s", smp.Entity)),
			st.Label.Render(fmt.Sprintf("(%7.2f %7.2f %7.2f) yaw %7.1f", smp.Position[0], smp.Position[1], smp.Position[2], smp.Rotation.Yaw)),
			vis))
	}

	view := frame.View
	if view == "" {
		view = "-"
	}
	b.WriteString(fmt.Sprintf("\n  %s %s   %s %.2f\n",
		st.Label.Render("camera"), st.Value.Render(view),
		st.Label.Render("fade"), frame.Fade))

	if len(*p.events) > 0 {
		b.WriteString("  " + st.Label.Render("events") + "\n")
		for _, ev := range *p.events {
			b.WriteString(fmt.Sprintf("    %s %s\n",
				st.Label.Render(fmt.Sprintf("%6.2fs", ev.Time)),
				st.Event.Render(ev.Group+"/"+ev.Name)))
		}
	}

	if p.status != "" {
		b.WriteString("\n  " + st.Muted.Render(p.status) + "\n")
	}
	b.WriteString("\n" + st.Muted.Render("  space play/pause  r reverse  d direction  ←/→ scrub  home/end seek  s stop  t theme  q quit") + "\n")
	return b.String()
}

func entityRune(name string) rune {
	for _, r := range strings.ToUpper(name) {
		return r
	}
	return '?'
}

// Run plays fx in the terminal until the user quits. reloads, when non-nil,
// feeds hot reloaded fixtures into the player.
func Run(fx *fixture.Fixture, opts Options, reloads <-chan tea.Msg) error {
	p, err := NewPlayer(fx, opts)
	if err != nil {
		return err
	}
	prog := tea.NewProgram(p, tea.WithAltScreen())
	if reloads != nil {
		go func() {
			for msg := range reloads {
				prog.Send(msg)
			}
		}()
	}
	_, err = prog.Run()
	return err
}
