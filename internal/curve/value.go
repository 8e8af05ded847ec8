package curve

import "github.com/go-gl/mathgl/mgl64"

// Value is the arithmetic a key value needs for interpolation.
// mgl64.Vec2, Vec3 and Vec4 satisfy it as-is.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(float64) T
}

// Scalar is a single float channel.
type Scalar float64

func (s Scalar) Add(o Scalar) Scalar  { return s + o }
func (s Scalar) Sub(o Scalar) Scalar  { return s - o }
func (s Scalar) Mul(c float64) Scalar { return Scalar(float64(s) * c) }

// Lerp blends a toward b by alpha.
func Lerp[T Value[T]](a, b T, alpha float64) T {
	return a.Add(b.Sub(a).Mul(alpha))
}

// components flattens a value into its float channels.
func components[T any](v T) []float64 {
	switch x := any(v).(type) {
	case Scalar:
		return []float64{float64(x)}
	case mgl64.Vec2:
		return x[:]
	case mgl64.Vec3:
		return x[:]
	case mgl64.Vec4:
		return x[:]
	}
	return nil
}

func fromComponents[T any](c []float64) T {
	var out T
	switch p := any(&out).(type) {
	case *Scalar:
		*p = Scalar(c[0])
	case *mgl64.Vec2:
		copy(p[:], c)
	case *mgl64.Vec3:
		copy(p[:], c)
	case *mgl64.Vec4:
		copy(p[:], c)
	}
	return out
}
