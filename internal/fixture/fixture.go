package fixture

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a sequence fixture: the scene it plays in and
// the authored groups.
type File struct {
	Name     string      `yaml:"name"`
	Duration float64     `yaml:"duration,omitempty"`
	Scene    SceneSpec   `yaml:"scene"`
	Groups   []GroupSpec `yaml:"groups"`
}

type SceneSpec struct {
	Entities []EntitySpec      `yaml:"entities"`
	Flags    map[string]bool    `yaml:"flags,omitempty"`
	Clips    map[string]float64 `yaml:"clips,omitempty"`
}

type EntitySpec struct {
	Name     string `yaml:"name"`
	Position Value  `yaml:"position,omitempty"`
	// Rotation is pitch, yaw, roll in degrees.
	Rotation Value         `yaml:"rotation,omitempty"`
	Scale    Value         `yaml:"scale,omitempty"`
	Parent   string        `yaml:"parent,omitempty"`
	Hidden   bool          `yaml:"hidden,omitempty"`
	Active   bool          `yaml:"active,omitempty"`
	Light    *LightSpec    `yaml:"light,omitempty"`
	Material *MaterialSpec `yaml:"material,omitempty"`
}

type LightSpec struct {
	Intensity float64 `yaml:"intensity"`
	Radius    float64 `yaml:"radius,omitempty"`
	Color     Value   `yaml:"color,omitempty"`
}

type MaterialSpec struct {
	Tint    Value   `yaml:"tint,omitempty"`
	Offset  Value   `yaml:"offset,omitempty"`
	Opacity float64 `yaml:"opacity,omitempty"`
}

type GroupSpec struct {
	Name     string      `yaml:"name"`
	Target   string      `yaml:"target,omitempty"`
	Director bool        `yaml:"director,omitempty"`
	Folder   bool        `yaml:"folder,omitempty"`
	Tracks   []TrackSpec `yaml:"tracks,omitempty"`
}

// TrackSpec carries the union of every track kind's settings. Kind selects
// which fields are read.
type TrackSpec struct {
	Kind          string      `yaml:"kind"`
	Name          string      `yaml:"name"`
	Disabled      bool        `yaml:"disabled,omitempty"`
	Mode          string      `yaml:"mode,omitempty"`
	Property      string      `yaml:"property,omitempty"`
	Frame         string      `yaml:"frame,omitempty"`
	LookAt        string      `yaml:"look_at,omitempty"`
	Slot          string      `yaml:"slot,omitempty"`
	SkipNotifies  bool        `yaml:"skip_notifies,omitempty"`
	PlayOnReverse bool        `yaml:"play_on_reverse,omitempty"`
	ContinueOnEnd bool        `yaml:"continue_on_end,omitempty"`
	Firing        *FiringSpec `yaml:"firing,omitempty"`
	Keys          []KeySpec   `yaml:"keys,omitempty"`
	Weights       []KeySpec   `yaml:"weights,omitempty"`
}

type FiringSpec struct {
	Forwards        bool `yaml:"forwards"`
	Backwards       bool `yaml:"backwards"`
	Jumping         bool `yaml:"jumping,omitempty"`
	InvertOnReverse bool `yaml:"invert_on_reverse,omitempty"`
}

type KeySpec struct {
	Time float64 `yaml:"time"`
	Mode string  `yaml:"mode,omitempty"`

	Value  Value  `yaml:"value,omitempty"`
	Pos    Value  `yaml:"pos,omitempty"`
	Rot    Value  `yaml:"rot,omitempty"`
	Lookup string `yaml:"lookup,omitempty"`

	Action string `yaml:"action,omitempty"`
	If     string `yaml:"if,omitempty"`
	Unless string `yaml:"unless,omitempty"`
	Event  string `yaml:"event,omitempty"`

	Clip    string   `yaml:"clip,omitempty"`
	Volume  *float64 `yaml:"volume,omitempty"`
	Pitch   *float64 `yaml:"pitch,omitempty"`
	Start   float64  `yaml:"start,omitempty"`
	End     float64  `yaml:"end,omitempty"`
	Rate    float64  `yaml:"rate,omitempty"`
	Loop    bool     `yaml:"loop,omitempty"`
	Reverse bool     `yaml:"reverse,omitempty"`

	Target          string  `yaml:"target,omitempty"`
	Transition      float64 `yaml:"transition,omitempty"`
	SkipCameraReset bool    `yaml:"skip_camera_reset,omitempty"`
}

// Value is a number, a list of numbers or a color name.
type Value []float64

func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			c, ok := colornames.Map[strings.ToLower(n.Value)]
			if !ok {
				return fmt.Errorf("line %d: unknown color %q", n.Line, n.Value)
			}
			*v = Value{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
			return nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		*v = Value{f}
		return nil
	case yaml.SequenceNode:
		var fs []float64
		if err := n.Decode(&fs); err != nil {
			return err
		}
		*v = fs
		return nil
	}
	return fmt.Errorf("line %d: expected a number, list or color name", n.Line)
}

func (v Value) MarshalYAML() (any, error) {
	if len(v) == 1 {
		return v[0], nil
	}
	return []float64(v), nil
}

func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func Write(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
