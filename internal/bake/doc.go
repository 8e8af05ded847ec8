// Package bake plays sequences offline at a fixed step.
//
// A [Baker] builds the fixture's scene, plays the sequence through it and
// records a [Frame] per step:
//
//   - [Metric]: reduces the frames to one value
//   - [Observer]: sees each frame as it is recorded
//   - [Ensemble]: bakes several jobs concurrently
package bake
