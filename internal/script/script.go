package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/san-kum/seqsim/internal/sequencer"
)

const Ext = ".tengo"

var ErrCompile = errors.New("script: compile failed")

// Flags is the world state scripts may read and write.
type Flags interface {
	Flag(name string) bool
	SetFlag(name string, v bool)
}

// Line is one message a handler left in its log variable.
type Line struct {
	Event string
	Time  float64
	Text  string
}

// Handlers runs one compiled tengo script per event name. Each script sees
// event, group, track, time and position, may assign log, and can call
// engine.flag(name) and engine.set_flag(name, bool).
type Handlers struct {
	scripts map[string]*tengo.Compiled
	flags   Flags
	lines   []Line
	log     *slog.Logger
}

func New(sources map[string]string) (*Handlers, error) {
	h := &Handlers{
		scripts: make(map[string]*tengo.Compiled, len(sources)),
		log:     slog.New(slog.DiscardHandler),
	}
	for event, src := range sources {
		c, err := h.compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCompile, event, err)
		}
		h.scripts[event] = c
	}
	return h, nil
}

// Load compiles every <event>.tengo file in dir.
func Load(dir string) (*Handlers, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+Ext))
	if err != nil {
		return nil, err
	}
	sources := make(map[string]string, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		sources[strings.TrimSuffix(filepath.Base(p), Ext)] = string(b)
	}
	return New(sources)
}

func (h *Handlers) SetFlags(f Flags) { h.flags = f }

func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.log = l
	}
}

func (h *Handlers) compile(src string) (*tengo.Compiled, error) {
	s := tengo.NewScript([]byte(src))
	_ = s.Add("event", "")
	_ = s.Add("group", "")
	_ = s.Add("track", "")
	_ = s.Add("time", 0.0)
	_ = s.Add("position", 0.0)
	_ = s.Add("log", "")
	_ = s.Add("engine", h.engine())
	s.SetImports(stdlib.GetModuleMap("math", "text", "fmt"))
	return s.Compile()
}

func (h *Handlers) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["flag"] = &tengo.UserFunction{Name: "flag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h.flags == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name, _ := tengo.ToString(args[0])
		if h.flags.Flag(name) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["set_flag"] = &tengo.UserFunction{Name: "set_flag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if h.flags == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name, _ := tengo.ToString(args[0])
		if name == "" {
			return tengo.FalseValue, nil
		}
		v := true
		if len(args) > 1 {
			v = !args[1].IsFalsy()
		}
		h.flags.SetFlag(name, v)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// Events lists the event names with a handler.
func (h *Handlers) Events() []string {
	out := make([]string, 0, len(h.scripts))
	for name := range h.scripts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Handle runs the script for f, if there is one.
func (h *Handlers) Handle(f sequencer.Fired, position float64) error {
	c, ok := h.scripts[f.Name]
	if !ok {
		return nil
	}
	for name, v := range map[string]any{
		"event":    f.Name,
		"group":    f.Group,
		"track":    f.Track,
		"time":     f.Time,
		"position": position,
		"log":      "",
	} {
		if err := c.Set(name, v); err != nil {
			return err
		}
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("script %s: %w", f.Name, err)
	}
	if text := c.Get("log").String(); text != "" {
		h.lines = append(h.lines, Line{Event: f.Name, Time: f.Time, Text: text})
		h.log.Info("script", "event", f.Name, "log", text)
	}
	return nil
}

// Sink adapts Handle to a sequencer event sink. Script errors are logged.
func (h *Handlers) Sink(position func() float64) func(sequencer.Fired) {
	return func(f sequencer.Fired) {
		pos := f.Time
		if position != nil {
			pos = position()
		}
		if err := h.Handle(f, pos); err != nil {
			h.log.Warn("script failed", "event", f.Name, "err", err)
		}
	}
}

// Lines returns the collected log lines and clears them.
func (h *Handlers) Lines() []Line {
	out := h.lines
	h.lines = nil
	return out
}
