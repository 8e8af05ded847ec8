package timeline

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/curve"
)

// PropTrack drives a named property on the bound entity.
type PropTrack[T curve.Value[T]] struct {
	TrackInfo
	Channel[T]
	Property string
}

type (
	FloatPropTrack  = PropTrack[curve.Scalar]
	VectorPropTrack = PropTrack[mgl64.Vec3]
	ColorPropTrack  = PropTrack[mgl64.Vec4]
)

func NewPropTrack[T curve.Value[T]](name, property string) *PropTrack[T] {
	return &PropTrack[T]{
		TrackInfo: TrackInfo{Name: name},
		Channel:   Channel[T]{KeyMode: curve.CurveAutoClamped},
		Property:  property,
	}
}

func (p *PropTrack[T]) Kind() Kind {
	var zero T
	switch any(zero).(type) {
	case curve.Scalar:
		return KindFloatProp
	case mgl64.Vec4:
		return KindColorProp
	}
	return KindVectorProp
}

// FadeTrack writes the global fade amount.
type FadeTrack struct {
	TrackInfo
	Channel[curve.Scalar]
}

// SlomoTrack writes the global time dilation.
type SlomoTrack struct {
	TrackInfo
	Channel[curve.Scalar]
}

// AudioMasterTrack writes master volume (X) and pitch (Y).
type AudioMasterTrack struct {
	TrackInfo
	Channel[mgl64.Vec2]
}

func NewFadeTrack(name string) *FadeTrack {
	return &FadeTrack{TrackInfo: TrackInfo{Name: name}, Channel: Channel[curve.Scalar]{KeyMode: curve.Linear}}
}

func NewSlomoTrack(name string) *SlomoTrack {
	return &SlomoTrack{TrackInfo: TrackInfo{Name: name}, Channel: Channel[curve.Scalar]{KeyMode: curve.Linear}}
}

func NewAudioMasterTrack(name string) *AudioMasterTrack {
	return &AudioMasterTrack{TrackInfo: TrackInfo{Name: name}, Channel: Channel[mgl64.Vec2]{KeyMode: curve.Linear}}
}

func (*FadeTrack) Kind() Kind        { return KindFade }
func (*SlomoTrack) Kind() Kind       { return KindSlomo }
func (*AudioMasterTrack) Kind() Kind { return KindAudioMaster }

// Amount is the fade at t; no keys means no fade.
func (f *FadeTrack) Amount(t float64) float64 {
	return float64(f.Curve.Eval(t, 0))
}

// Scale is the time dilation at t; no keys means normal speed.
func (s *SlomoTrack) Scale(t float64) float64 {
	return float64(s.Curve.Eval(t, 1))
}

// Levels returns master volume and pitch at t.
func (a *AudioMasterTrack) Levels(t float64) (volume, pitch float64) {
	v := a.Curve.Eval(t, mgl64.Vec2{1, 1})
	return v[0], v[1]
}
