// Package curve provides keyframed channels and their evaluation.
//
// A [Curve] is an ordered list of [Key] values over one of the supported
// value types:
//
//   - [Scalar]: a single float channel
//   - mgl64.Vec2, mgl64.Vec3, mgl64.Vec4: vector and color channels
//
// Evaluation clamps to the first and last key, holds on Constant keys,
// lerps on Linear keys and uses a Hermite cubic on the curve modes. The
// tangent scaling of the cubic depends on the curve's [Method]:
//
//   - [TimeScaled]: tangents are per-second and scaled by the segment length
//   - [Legacy]: tangents are used as stored
//
// Auto tangents are recomputed after every edit that changes key times or
// values.
package curve
