package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/sequencer"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		spawn        int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.spawn)
			for i := range c.spawn {
				ents = append(ents, w.Spawn(string(rune('a'+i)), Transform{}))
			}
			if got := len(w.Names()); got != c.spawn {
				t.Fatalf("expected %d entities, got %d", c.spawn, got)
			}
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			if !w.Destroy(e) {
				t.Fatalf("Destroy should return true for a live entity")
			}
			if w.IsAlive(e) {
				t.Fatalf("entity should not be alive after Destroy")
			}
			if w.Destroy(e) {
				t.Fatalf("second Destroy should return false")
			}
			if w.Actor(e) != nil {
				t.Fatalf("expected no actor for a dead entity")
			}
		})
	}
}

func TestRecycledEntityHasNewGeneration(t *testing.T) {
	w := NewWorld()
	old := w.Spawn("old", Transform{Position: mgl64.Vec3{1, 2, 3}})
	w.Destroy(old)
	fresh := w.Spawn("fresh", Transform{})

	if fresh.index() != old.index() {
		t.Fatalf("expected index reuse, got %d and %d", old.index(), fresh.index())
	}
	if fresh == old {
		t.Fatalf("recycled entity must not equal the destroyed one")
	}
	if w.IsAlive(old) {
		t.Fatalf("stale handle reported alive")
	}
	if _, ok := w.Transform(old); ok {
		t.Fatalf("stale handle still reads components")
	}
}

func TestSparseSetRemoveKeepsOthers(t *testing.T) {
	var s SparseSet[int]
	es := []Entity{makeEntity(1, 0), makeEntity(2, 0), makeEntity(3, 0)}
	for i, e := range es {
		s.Set(e, i*10)
	}
	s.Remove(es[0])

	if s.Has(es[0]) {
		t.Fatalf("removed entity still present")
	}
	for i, e := range es[1:] {
		v, ok := s.Get(e)
		if !ok || *v != (i+1)*10 {
			t.Errorf("entity %d: expected %d, got %v", e, (i+1)*10, v)
		}
	}
	if s.Len() != 2 {
		t.Errorf("expected len 2, got %d", s.Len())
	}
}

func TestResolveProperties(t *testing.T) {
	w := NewWorld()
	e := w.Spawn("lamp", Transform{})
	w.AddComponent(e, "light", &Light{Intensity: 2, Color: mgl64.Vec4{1, 0, 0, 1}})
	w.AddComponent(e, "material", &Material{Offset: mgl64.Vec3{0, 1, 0}})
	a := w.Actor(e)

	p, ok := a.ResolveFloat("light.Intensity")
	if !ok {
		t.Fatalf("expected light.Intensity to resolve")
	}
	p.Set(5)
	c, _ := w.Component(e, "light")
	if got := c.(*Light).Intensity; got != 5 {
		t.Errorf("expected intensity 5, got %v", got)
	}

	if col, ok := a.ResolveColor("light.Color"); !ok || col.Get() != (mgl64.Vec4{1, 0, 0, 1}) {
		t.Errorf("expected red light color")
	}
	if off, ok := a.ResolveVector("material.Offset"); !ok || off.Get()[1] != 1 {
		t.Errorf("expected material offset to resolve")
	}

	misses := []struct {
		name string
		fn   func() bool
	}{
		{"unknown component", func() bool { _, ok := a.ResolveFloat("fog.Density"); return ok }},
		{"unknown field", func() bool { _, ok := a.ResolveFloat("light.Nope"); return ok }},
		{"wrong type", func() bool { _, ok := a.ResolveFloat("light.Color"); return ok }},
		{"no field", func() bool { _, ok := a.ResolveFloat("light"); return ok }},
	}
	for _, m := range misses {
		if m.fn() {
			t.Errorf("%s: expected resolve to fail", m.name)
		}
	}
}

func TestAttachedActorTransforms(t *testing.T) {
	w := NewWorld()
	parent := w.Spawn("rig", Transform{Position: mgl64.Vec3{0, 0, 5}, Scale: mgl64.Vec3{2, 2, 2}})
	child := w.Spawn("cam", Transform{Position: mgl64.Vec3{1, 0, 0}})
	w.Attach(child, parent)
	a := w.Actor(child)

	pos := a.Position()
	if !near(pos[0], 1) || !near(pos[2], 5) {
		t.Fatalf("expected world position (1,0,5), got %v", pos)
	}
	a.SetPosition(mgl64.Vec3{3, 0, 5})
	if tr, _ := w.Transform(child); !near(tr.Position[0], 3) || !near(tr.Position[2], 0) {
		t.Errorf("expected local (3,0,0), got %v", tr.Position)
	}
	if _, ok := a.ParentTransform(); !ok {
		t.Errorf("expected a parent transform")
	}

	w.Destroy(parent)
	if _, ok := a.ParentTransform(); ok {
		t.Errorf("destroyed parent should detach")
	}
}

func TestDetachedRotationKeepsWinding(t *testing.T) {
	w := NewWorld()
	a := w.Actor(w.Spawn("spinner", Transform{}))
	a.SetRotation(xform.Rotator{Yaw: 450})
	if got := a.Rotation().Yaw; got != 450 {
		t.Errorf("expected yaw 450, got %v", got)
	}
}

func TestCameraViewpoint(t *testing.T) {
	w := NewWorld()
	cam := w.Actor(w.Spawn("director", Transform{}))
	target := w.Actor(w.Spawn("A", Transform{}))

	if cam.CameraViewpoint() != nil {
		t.Fatalf("expected camera to start on itself")
	}
	cam.SetCameraViewpoint(target, 0.5)
	if cam.Viewing() != "A" {
		t.Errorf("expected view A, got %q", cam.Viewing())
	}
	cam.SetCameraViewpoint(nil, 0)
	if cam.CameraViewpoint() != nil {
		t.Errorf("expected nil viewpoint after clearing")
	}
	if got := cam.Camera().Blends; len(got) != 2 || got[0] != 0.5 {
		t.Errorf("expected blends [0.5 0], got %v", got)
	}
}

func TestBuild(t *testing.T) {
	spec := Spec{
		Entities: []EntitySpec{
			{Name: "cam", Parent: "rig", Position: mgl64.Vec3{1, 0, 0}},
			{Name: "rig", Position: mgl64.Vec3{0, 0, 2}},
			{Name: "lamp", Hidden: true, Light: &Light{Intensity: 3}},
		},
		Flags: map[string]bool{"night": true},
		Clips: map[string]float64{"walk": 1.5},
	}
	w, err := Build(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cam, _ := w.Lookup("cam")
	if p := w.WorldPosition(cam); !near(p[2], 2) {
		t.Errorf("expected cam z 2, got %v", p)
	}
	lamp, _ := w.Lookup("lamp")
	if w.Actor(lamp).IsVisible() {
		t.Errorf("expected lamp hidden")
	}
	if !w.Flag("night") {
		t.Errorf("expected night flag")
	}
	if l, ok := w.ClipLength("walk"); !ok || l != 1.5 {
		t.Errorf("expected walk clip 1.5, got %v", l)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"duplicate", Spec{Entities: []EntitySpec{{Name: "a"}, {Name: "a"}}}, ErrDuplicateEntity},
		{"unknown parent", Spec{Entities: []EntitySpec{{Name: "a", Parent: "ghost"}}}, ErrUnknownParent},
		{"cycle", Spec{Entities: []EntitySpec{{Name: "a", Parent: "b"}, {Name: "b", Parent: "a"}}}, ErrParentCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSequencerDrivesWorld(t *testing.T) {
	w, err := Build(Spec{Entities: []EntitySpec{
		{Name: "director"},
		{Name: "cube"},
		{Name: "lamp", Light: &Light{Intensity: 1}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mv := timeline.NewMoveTrack("move", timeline.FrameWorld)
	mv.KeyMode = curve.Linear
	mv.AddKeyValue(0, mgl64.Vec3{}, xform.Rotator{})
	mv.AddKeyValue(4, mgl64.Vec3{8, 0, 0}, xform.Rotator{})

	glow := timeline.NewPropTrack[curve.Scalar]("glow", "light.Intensity")
	glow.KeyMode = curve.Linear
	glow.AddKeyValue(0, 0)
	glow.AddKeyValue(4, 4)

	fade := timeline.NewFadeTrack("fade")
	fade.AddKeyValue(0, 0)
	fade.AddKeyValue(4, 1)

	cuts := timeline.NewDirectorTrack("cuts")
	cuts.AddCut(timeline.Cut{Time: 2, Target: "cube"})
	director := timeline.NewGroup("director", cuts, fade)
	director.Director = true

	data := &timeline.SequenceData{Name: "world", Duration: 4, Groups: []*timeline.Group{
		director,
		timeline.NewGroup("cube", mv),
		timeline.NewGroup("lamp", glow),
	}}

	s, err := sequencer.New(data, w.Binder(), sequencer.WithGlobals(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Play()
	s.Tick(3)

	cube, _ := w.Lookup("cube")
	if p := w.WorldPosition(cube); !near(p[0], 6) {
		t.Errorf("expected cube x 6, got %v", p[0])
	}
	lamp, _ := w.Lookup("lamp")
	c, _ := w.Component(lamp, "light")
	if got := c.(*Light).Intensity; !near(got, 3) {
		t.Errorf("expected intensity 3, got %v", got)
	}
	if !near(w.Fade, 0.75) {
		t.Errorf("expected fade 0.75, got %v", w.Fade)
	}
	dir, _ := w.Lookup("director")
	if v := w.Actor(dir).Viewing(); v != "cube" {
		t.Errorf("expected camera on cube, got %q", v)
	}

	s.Stop()
	if got := c.(*Light).Intensity; got != 1 {
		t.Errorf("expected intensity restored to 1, got %v", got)
	}
	if v := w.Actor(dir).Viewing(); v != "" {
		t.Errorf("expected camera restored, got %q", v)
	}
}
