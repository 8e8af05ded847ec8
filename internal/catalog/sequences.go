package catalog

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/fixture"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/xform"
)

func yaw(deg float64) xform.Rotator { return xform.Rotator{Yaw: deg} }

func linearMove(name string, frame timeline.MoveFrame) *timeline.MoveTrack {
	mv := timeline.NewMoveTrack(name, frame)
	mv.KeyMode = curve.Linear
	return mv
}

func director(tracks ...timeline.Track) *timeline.Group {
	g := timeline.NewGroup("director", tracks...)
	g.Director = true
	return g
}

func Linear() *fixture.Fixture {
	mv := linearMove("move", timeline.FrameWorld)
	mv.AddKeyValue(0, mgl64.Vec3{0, 0, 0}, xform.Rotator{})
	mv.AddKeyValue(4, mgl64.Vec3{10, 0, 0}, xform.Rotator{})

	return &fixture.Fixture{
		Data: &timeline.SequenceData{Name: "linear", Groups: []*timeline.Group{timeline.NewGroup("cube", mv)}},
		Scene: scene.Spec{Entities: []scene.EntitySpec{
			{Name: "cube"},
		}},
	}
}

func Flyby() *fixture.Fixture {
	cuts := timeline.NewDirectorTrack("cuts")
	cuts.AddCut(timeline.Cut{Time: 0, Target: "drone"})
	cuts.AddCut(timeline.Cut{Time: 6, Target: "beacon", Transition: 0.5})

	fade := timeline.NewFadeTrack("fade")
	fade.AddKeyValue(8, 0)
	fade.AddKeyValue(10, 1)

	path := linearMove("path", timeline.FrameWorld)
	path.AddKeyValue(0, mgl64.Vec3{-10, 0, 0}, xform.Rotator{})
	path.AddKeyValue(10, mgl64.Vec3{10, 0, 0}, yaw(90))

	rotors := timeline.NewAnimTrack("rotors", "body")
	rotors.AddClip(timeline.AnimKey{Time: 0, Clip: "hover", Looping: true})

	engine := timeline.NewSoundTrack("engine")
	engine.AddSound(5, "whoosh", 0.8, 1)

	blink := timeline.NewPropTrack[mgl64.Vec4]("blink", "light.Color")
	blink.KeyMode = curve.Constant
	blink.AddKeyValue(0, mgl64.Vec4{0.86, 0.08, 0.24, 1})
	blink.AddKeyValue(5, mgl64.Vec4{0, 1, 0, 1})

	night := timeline.NewVisibilityTrack("night-only")
	night.AddVisibility(2, timeline.Show, timeline.Condition{Kind: timeline.IfFlag, Flag: "night"})
	night.AddVisibility(9, timeline.Hide, timeline.Condition{})

	markers := timeline.NewEventTrack("markers")
	markers.FireWhenBackwards = false
	markers.AddEvent(5, "pass")

	return &fixture.Fixture{
		Data: &timeline.SequenceData{Name: "flyby", Duration: 10, Groups: []*timeline.Group{
			director(cuts, fade),
			timeline.NewGroup("drone", path, rotors, engine),
			timeline.NewGroup("beacon", blink, night, markers),
		}},
		Scene: scene.Spec{
			Entities: []scene.EntitySpec{
				{Name: "director"},
				{Name: "rig", Position: mgl64.Vec3{0, 0, 5}},
				{Name: "drone", Parent: "rig", Position: mgl64.Vec3{-10, 0, 0}},
				{Name: "beacon", Position: mgl64.Vec3{20, 5, 0}, Light: &scene.Light{Intensity: 0.5}},
			},
			Flags: map[string]bool{"night": true},
			Clips: map[string]float64{"hover": 2, "whoosh": 1.5},
		},
	}
}

func Cuts() *fixture.Fixture {
	cuts := timeline.NewDirectorTrack("cuts")
	cuts.AddCut(timeline.Cut{Time: 0, Target: "camA"})
	cuts.AddCut(timeline.Cut{Time: 3, Target: "camB", Transition: 0.5})
	cuts.AddCut(timeline.Cut{Time: 6, Target: "camC"})
	cuts.AddCut(timeline.Cut{Time: 9, Target: "director", SkipCameraReset: true})

	fade := timeline.NewFadeTrack("fade")
	fade.AddKeyValue(8, 0)
	fade.AddKeyValue(10, 1)

	slomo := timeline.NewSlomoTrack("slomo")
	slomo.AddKeyValue(4, 1)
	slomo.AddKeyValue(5, 0.5)
	slomo.AddKeyValue(6, 1)

	master := timeline.NewAudioMasterTrack("master")
	master.AddKeyValue(0, mgl64.Vec2{1, 1})
	master.AddKeyValue(10, mgl64.Vec2{0, 1})

	dolly := linearMove("dolly", timeline.FrameRelativeToInitial)
	dolly.AddKeyValue(0, mgl64.Vec3{}, xform.Rotator{})
	dolly.AddKeyValue(3, mgl64.Vec3{0, 6, 0}, xform.Rotator{})

	return &fixture.Fixture{
		Data: &timeline.SequenceData{Name: "cuts", Duration: 10, Groups: []*timeline.Group{
			director(cuts, fade, slomo, master),
			timeline.NewGroup("camA"),
			timeline.NewGroup("camB", dolly),
			timeline.NewGroup("camC"),
		}},
		Scene: scene.Spec{Entities: []scene.EntitySpec{
			{Name: "director"},
			{Name: "camA", Position: mgl64.Vec3{0, -20, 10}},
			{Name: "camB", Position: mgl64.Vec3{20, -3, 10}, Rotation: yaw(180)},
			{Name: "camC", Position: mgl64.Vec3{-20, 0, 10}},
		}},
	}
}

func Orbit() *fixture.Fixture {
	orbit := timeline.NewMoveTrack("orbit", timeline.FrameRelativeToInitial)
	orbit.AddKeyValue(0, mgl64.Vec3{}, xform.Rotator{})
	orbit.AddKeyValue(2.5, mgl64.Vec3{-10, 10, 0}, yaw(90))
	orbit.AddKeyValue(5, mgl64.Vec3{-20, 0, 0}, yaw(180))
	orbit.AddKeyValue(7.5, mgl64.Vec3{-10, -10, 0}, yaw(270))
	orbit.AddKeyValue(10, mgl64.Vec3{}, yaw(360))

	tracker := timeline.NewMoveTrack("track", timeline.FrameWorld)
	tracker.LookAt = "probe"

	escort := linearMove("escort", timeline.FrameWorld)
	escort.AddKeyValue(0, mgl64.Vec3{0, 0, 20}, xform.Rotator{})
	i := escort.AddKeyValue(10, mgl64.Vec3{}, xform.Rotator{})
	_ = escort.SetLookup(i, "probe")

	tint := timeline.NewPropTrack[mgl64.Vec4]("tint", "material.Tint")
	tint.AddKeyValue(0, mgl64.Vec4{0.2, 0.4, 1, 1})
	tint.AddKeyValue(5, mgl64.Vec4{1, 0.5, 0.2, 1})
	tint.AddKeyValue(10, mgl64.Vec4{0.2, 0.4, 1, 1})

	glow := timeline.NewPropTrack[curve.Scalar]("glow", "light.Intensity")
	glow.AddKeyValue(0, 0.2)
	glow.AddKeyValue(5, 1)
	glow.AddKeyValue(10, 0.2)

	return &fixture.Fixture{
		Data: &timeline.SequenceData{Name: "orbit", Duration: 10, Groups: []*timeline.Group{
			timeline.NewGroup("probe", orbit),
			timeline.NewGroup("tracker", tracker),
			timeline.NewGroup("escort", escort),
			timeline.NewGroup("planet", tint, glow),
		}},
		Scene: scene.Spec{Entities: []scene.EntitySpec{
			{Name: "planet", Material: &scene.Material{Opacity: 1}, Light: &scene.Light{Radius: 12}},
			{Name: "probe", Position: mgl64.Vec3{10, 0, 0}, Rotation: yaw(90)},
			{Name: "tracker", Position: mgl64.Vec3{0, -30, 5}},
			{Name: "escort", Position: mgl64.Vec3{0, 0, 20}},
		}},
	}
}

func Events() *fixture.Fixture {
	ev := timeline.NewEventTrack("events")
	ev.AddEvent(1, "intro")
	ev.AddEvent(3, "boom")
	ev.AddEvent(3, "flash")
	ev.AddEvent(5, "end")

	boom := timeline.NewSoundTrack("boom")
	boom.AddSound(3, "boom", 1, 1)

	power := timeline.NewToggleTrack("power")
	power.AddToggle(1, timeline.ToggleOn)
	power.AddToggle(3, timeline.ToggleTrigger)
	power.AddToggle(4, timeline.ToggleOff)

	vis := timeline.NewVisibilityTrack("hide")
	vis.AddVisibility(4.5, timeline.Hide, timeline.Condition{Kind: timeline.UnlessFlag, Flag: "debug"})

	dance := timeline.NewAnimTrack("dance", "body")
	dance.AddClip(timeline.AnimKey{Time: 0, Clip: "idle", Looping: true})
	dance.AddClip(timeline.AnimKey{Time: 3, Clip: "wave"})
	dance.Weight.AddKey(0, 1, curve.Linear)

	return &fixture.Fixture{
		Data: &timeline.SequenceData{Name: "events", Duration: 6, Groups: []*timeline.Group{
			timeline.NewGroup("fx", ev, boom),
			timeline.NewGroup("lamp", power, vis),
			timeline.NewGroup("dancer", dance),
		}},
		Scene: scene.Spec{
			Entities: []scene.EntitySpec{{Name: "fx"}, {Name: "lamp"}, {Name: "dancer"}},
			Clips:    map[string]float64{"boom": 2, "idle": 1, "wave": 1.5},
		},
	}
}
