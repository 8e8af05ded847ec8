package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/sequencer"
	"github.com/san-kum/seqsim/internal/viz"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newPlayer(t *testing.T) *Player {
	t.Helper()
	p, err := NewPlayer(catalog.Flyby(), Options{Settings: sequencer.DefaultSettings()})
	require.NoError(t, err)
	return p
}

func TestPlayerKeys(t *testing.T) {
	p := newPlayer(t)
	s := p.Sequencer()

	p.Update(key(" "))
	assert.Equal(t, sequencer.PlayingForward, s.State())

	p.Update(key(" "))
	assert.Equal(t, sequencer.Paused, s.State())

	p.Update(key(" "))
	assert.Equal(t, sequencer.PlayingForward, s.State())

	p.Update(key("d"))
	assert.Equal(t, sequencer.PlayingReverse, s.State())

	p.Update(key("end"))
	assert.InDelta(t, 10, s.Position(), 1e-9)

	p.Update(key("left"))
	assert.InDelta(t, 9.5, s.Position(), 1e-9)

	p.Update(key("home"))
	p.Update(key("right"))
	assert.InDelta(t, 0.5, s.Position(), 1e-9)

	p.Update(key("s"))
	assert.Equal(t, sequencer.Stopped, s.State())

	theme := p.styles.Theme.Name
	p.Update(key("t"))
	assert.NotEqual(t, theme, p.styles.Theme.Name)

	_, cmd := p.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPlayerTicksAndLogsEvents(t *testing.T) {
	p := newPlayer(t)
	p.Update(key(" "))

	start := time.Unix(0, 0)
	p.Update(tickMsg(start))
	for i := 1; i <= 60; i++ {
		p.Update(tickMsg(start.Add(time.Duration(i) * 100 * time.Millisecond)))
	}

	assert.InDelta(t, 6, p.Sequencer().Position(), 1e-6)
	require.Len(t, *p.events, 1)
	assert.Equal(t, "pass", (*p.events)[0].Name)

	out := p.View()
	assert.Contains(t, out, "flyby")
	assert.Contains(t, out, "beacon/pass")
	assert.Contains(t, out, "camera")
}

func TestPlayerReloadKeepsPlayhead(t *testing.T) {
	p := newPlayer(t)
	p.Update(key(" "))
	p.Advance(0.1)
	p.Sequencer().SetPosition(4, true)

	p.Update(ReloadMsg{Fixture: catalog.Flyby()})
	assert.InDelta(t, 4, p.Sequencer().Position(), 1e-9)
	assert.Contains(t, p.status, "reloaded")

	p.Update(ErrorMsg{Err: assert.AnError})
	assert.Contains(t, p.View(), assert.AnError.Error())
}

func TestPlayerCutMarks(t *testing.T) {
	p := newPlayer(t)
	assert.Equal(t, []float64{0, 0.6}, p.cuts)
	assert.NotEmpty(t, p.paths["drone"])
}

func TestLiveRenderer(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "linear", 1000)
	r.SetBounds(viz.FitBounds())

	b := bake.New(catalog.Linear())
	b.AddObserver(r)
	_, err := b.Run(context.Background(), bake.Config{Dt: 0.5, Duration: 4, Settings: sequencer.DefaultSettings()})
	require.NoError(t, err)

	assert.Positive(t, r.Frames())
	assert.True(t, strings.Contains(out.String(), "linear"))
	assert.Len(t, r.trails["cube"], 9)
}

func TestLiveRendererFitsTrails(t *testing.T) {
	r := NewLiveRenderer(&bytes.Buffer{}, "linear", 1)
	r.OnStep(bake.Frame{Samples: []bake.Sample{{Entity: "cube", Visible: true}}})
	out := r.Render(bake.Frame{Time: 1, Position: 1, View: "cam", Fired: []sequencer.Fired{{Group: "fx", Name: "boom"}}})
	assert.Contains(t, out, "view=cam")
	assert.Contains(t, out, "! fx/boom")
}
