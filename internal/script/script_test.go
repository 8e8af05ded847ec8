package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/sequencer"
)

func TestLoadCompilesDir(t *testing.T) {
	h, err := Load("testdata")
	require.NoError(t, err)
	assert.Equal(t, []string{"boom", "end"}, h.Events())
}

func TestHandleSetsLogAndFlags(t *testing.T) {
	h, err := Load("testdata")
	require.NoError(t, err)
	w := scene.NewWorld()
	h.SetFlags(w)

	require.NoError(t, h.Handle(sequencer.Fired{Group: "fx", Track: "cues", Name: "boom", Time: 3}, 3.2))
	assert.True(t, w.Flag("debug"))

	require.NoError(t, h.Handle(sequencer.Fired{Group: "fx", Name: "end", Time: 5}, 5))
	require.NoError(t, h.Handle(sequencer.Fired{Group: "fx", Name: "unhandled", Time: 5}, 5))

	lines := h.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "boom from fx at 3.0", lines[0].Text)
	assert.Equal(t, Line{Event: "end", Time: 5, Text: "debug was on"}, lines[1])
	assert.Empty(t, h.Lines())
}

func TestScriptsRerunWithFreshLog(t *testing.T) {
	h, err := New(map[string]string{
		"tick": `if position > 1 { log = "late" }`,
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle(sequencer.Fired{Name: "tick"}, 2))
	require.NoError(t, h.Handle(sequencer.Fired{Name: "tick"}, 0.5))
	lines := h.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "late", lines[0].Text)
}

func TestCompileError(t *testing.T) {
	_, err := New(map[string]string{"bad": "log = ("})
	assert.ErrorIs(t, err, ErrCompile)
}

func TestRuntimeErrorIsReturned(t *testing.T) {
	h, err := New(map[string]string{"bad": "a := 0\nx := 1 / a"})
	require.NoError(t, err)
	assert.Error(t, h.Handle(sequencer.Fired{Name: "bad"}, 0))
}

func TestSinkDrivesSequence(t *testing.T) {
	h, err := Load("testdata")
	require.NoError(t, err)

	fx := catalog.Events()
	w, err := scene.Build(fx.Scene)
	require.NoError(t, err)
	h.SetFlags(w)

	var s *sequencer.Sequencer
	s, err = sequencer.New(fx.Data, w.Binder(),
		sequencer.WithConditions(w),
		sequencer.WithEventSink(h.Sink(func() float64 { return s.Position() })),
	)
	require.NoError(t, err)

	s.Play()
	for !s.Tick(0.25) {
	}

	lines := h.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "boom", lines[0].Event)
	assert.Equal(t, "debug was on", lines[1].Text)
	assert.True(t, w.Flag("debug"))
}
