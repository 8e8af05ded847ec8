package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/xform"
)

var (
	ErrDuplicateEntity = errors.New("scene: duplicate entity name")
	ErrUnknownParent   = errors.New("scene: unknown parent")
	ErrParentCycle     = errors.New("scene: parent cycle")
)

// EntitySpec describes one entity of a scene.
type EntitySpec struct {
	Name     string
	Position mgl64.Vec3
	Rotation xform.Rotator
	Scale    mgl64.Vec3
	Parent   string
	Hidden   bool
	Active   bool
	Light    *Light
	Material *Material
}

// Spec is a complete scene: entities in any order, condition flags and
// clip lengths.
type Spec struct {
	Entities []EntitySpec
	Flags    map[string]bool
	Clips    map[string]float64
}

// Build spawns every entity of spec and wires parents by name.
func Build(spec Spec) (*World, error) {
	w := NewWorld()
	for _, es := range spec.Entities {
		if _, dup := w.Lookup(es.Name); dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, es.Name)
		}
		e := w.Spawn(es.Name, Transform{Position: es.Position, Rotation: es.Rotation, Scale: es.Scale})
		if es.Hidden {
			w.visible.Set(e, false)
		}
		if es.Active {
			w.Actor(e).SetActive(true)
		}
		if es.Light != nil {
			l := *es.Light
			w.AddComponent(e, "light", &l)
		}
		if es.Material != nil {
			m := *es.Material
			w.AddComponent(e, "material", &m)
		}
	}

	for _, es := range spec.Entities {
		if es.Parent == "" {
			continue
		}
		parent, ok := w.Lookup(es.Parent)
		if !ok {
			return nil, fmt.Errorf("%w: %q for %q", ErrUnknownParent, es.Parent, es.Name)
		}
		child, _ := w.Lookup(es.Name)
		w.Attach(child, parent)
	}
	if err := w.checkCycles(); err != nil {
		return nil, err
	}

	for k, v := range spec.Flags {
		w.SetFlag(k, v)
	}
	for k, v := range spec.Clips {
		w.SetClip(k, v)
	}
	return w, nil
}

func (w *World) checkCycles() error {
	for _, name := range w.Names() {
		e, _ := w.Lookup(name)
		seen := map[Entity]bool{e: true}
		for {
			t, ok := w.transforms.Get(e)
			if !ok || !t.Parent.Valid() {
				break
			}
			e = t.Parent
			if seen[e] {
				return fmt.Errorf("%w: %q", ErrParentCycle, name)
			}
			seen[e] = true
		}
	}
	return nil
}
