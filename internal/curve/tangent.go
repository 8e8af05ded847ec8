package curve

import "math"

const (
	kindaSmall     = 1e-4
	clampThreshold = 0.333
)

// CubicInterp evaluates the Hermite basis between p0 and p1.
func CubicInterp[T Value[T]](p0, t0, p1, t1 T, a float64) T {
	a2 := a * a
	a3 := a2 * a
	return p0.Mul(2*a3 - 3*a2 + 1).
		Add(t0.Mul(a3 - 2*a2 + a)).
		Add(t1.Mul(a3 - a2)).
		Add(p1.Mul(-2*a3 + 3*a2))
}

// LegacyAutoCalcTangent is the symmetric difference (1-tension)*(next-prev).
func LegacyAutoCalcTangent[T Value[T]](prev, p, next T, tension float64) T {
	return p.Sub(prev).Add(next.Sub(p)).Mul(1 - tension)
}

// ComputeCurveTangent returns a per-second tangent for the key at curTime.
// With clamp set each channel is flattened near crests and troughs so the
// curve does not overshoot its neighbours.
func ComputeCurveTangent[T Value[T]](prevTime float64, prev T, curTime float64, cur T, nextTime float64, next T, tension float64, clamp bool) T {
	if !clamp {
		span := math.Max(kindaSmall, nextTime-prevTime)
		return LegacyAutoCalcTangent(prev, cur, next, tension).Mul(1 / span)
	}

	pv, cv, nv := components(prev), components(cur), components(next)
	out := make([]float64, len(cv))
	for i := range cv {
		out[i] = (1 - tension) * ClampFloatTangent(pv[i], prevTime, cv[i], curTime, nv[i], nextTime)
	}
	return fromComponents[T](out)
}

// ClampFloatTangent computes a slope for one channel and clamps it toward the
// adjacent segment slopes when the key sits near either neighbour's height.
func ClampFloatTangent(prevVal, prevTime, curVal, curTime, nextVal, nextTime float64) float64 {
	prevToNextTime := math.Max(kindaSmall, nextTime-prevTime)
	prevToCurTime := math.Max(kindaSmall, curTime-prevTime)
	curToNextTime := math.Max(kindaSmall, nextTime-curTime)

	prevToNextHeight := nextVal - prevVal
	prevToCurHeight := curVal - prevVal
	curToNextHeight := nextVal - curVal

	if (prevToCurHeight >= 0 && curToNextHeight <= 0) || (prevToCurHeight <= 0 && curToNextHeight >= 0) {
		return 0
	}

	curToNextSlope := curToNextHeight / curToNextTime
	prevToCurSlope := prevToCurHeight / prevToCurTime
	prevToNextSlope := prevToNextHeight / prevToNextTime

	clamped := prevToNextSlope
	lower := clampThreshold
	upper := 1 - clampThreshold
	alpha := prevToCurHeight / prevToNextHeight

	if prevToNextHeight > 0 {
		if alpha < lower {
			w := 1 - alpha/clampThreshold
			clamped = math.Min(clamped, lerp(prevToNextSlope, prevToCurSlope, w))
		}
		if alpha > upper {
			w := (alpha - upper) / clampThreshold
			clamped = math.Min(clamped, lerp(prevToNextSlope, curToNextSlope, w))
		}
	} else {
		if alpha < lower {
			w := 1 - alpha/clampThreshold
			clamped = math.Max(clamped, lerp(prevToNextSlope, prevToCurSlope, w))
		}
		if alpha > upper {
			w := (alpha - upper) / clampThreshold
			clamped = math.Max(clamped, lerp(prevToNextSlope, curToNextSlope, w))
		}
	}
	return clamped
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
