package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/seqsim/internal/curve"
	"github.com/san-kum/seqsim/internal/timeline"
)

// Sample evaluates f at n evenly spaced times over [from, to].
func Sample(f func(t float64) float64, from, to float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = f(from + float64(i)*step)
	}
	return out
}

// Plot draws values as an ASCII line chart.
func Plot(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotCurve charts a scalar curve over [from, to].
func PlotCurve(c *curve.Curve[curve.Scalar], from, to float64, width, height int, caption string) string {
	if c.Len() == 0 {
		return ""
	}
	values := Sample(func(t float64) float64 { return float64(c.Eval(t, 0)) }, from, to, width)
	return Plot(values, width, height, caption)
}

// PlotSeries charts several series on one graph, one color each.
func PlotSeries(series [][]float64, width, height int, caption string) string {
	if len(series) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red}
	used := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		used[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(used...),
	)
}

// TrackSeries samples every component of a curve-backed track over
// [from, to]. Discrete tracks return nil.
func TrackSeries(tr timeline.Track, from, to float64, n int) ([][]float64, []string) {
	switch t := tr.(type) {
	case *timeline.FadeTrack:
		return scalarSeries(&t.Curve, from, to, n), []string{"amount"}
	case *timeline.SlomoTrack:
		return scalarSeries(&t.Curve, from, to, n), []string{"dilation"}
	case *timeline.FloatPropTrack:
		return scalarSeries(&t.Curve, from, to, n), []string{t.Property}
	case *timeline.VectorPropTrack:
		return vecSeries(from, to, n, 3, func(at float64) []float64 { v := t.Curve.Eval(at, mgl64.Vec3{}); return v[:] }), []string{"x", "y", "z"}
	case *timeline.ColorPropTrack:
		return vecSeries(from, to, n, 4, func(at float64) []float64 { v := t.Curve.Eval(at, mgl64.Vec4{}); return v[:] }), []string{"r", "g", "b", "a"}
	case *timeline.AudioMasterTrack:
		return vecSeries(from, to, n, 2, func(at float64) []float64 { v := t.Curve.Eval(at, mgl64.Vec2{1, 1}); return v[:] }), []string{"volume", "pitch"}
	case *timeline.MoveTrack:
		return vecSeries(from, to, n, 3, func(at float64) []float64 { v := t.Pos.Eval(at, mgl64.Vec3{}); return v[:] }), []string{"x", "y", "z"}
	}
	return nil, nil
}

func scalarSeries(c *curve.Curve[curve.Scalar], from, to float64, n int) [][]float64 {
	return [][]float64{Sample(func(t float64) float64 { return float64(c.Eval(t, 0)) }, from, to, n)}
}

func vecSeries(from, to float64, n, dim int, eval func(t float64) []float64) [][]float64 {
	out := make([][]float64, dim)
	for i := range out {
		out[i] = Sample(func(t float64) float64 { return eval(t)[i] }, from, to, n)
	}
	return out
}
