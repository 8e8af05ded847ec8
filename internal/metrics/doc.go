// Package metrics provides reductions over baked frames.
//
//   - [EventCount]: events fired, optionally by name
//   - [PathLength], [MaxSpeed]: entity travel
//   - [CutCount]: camera changes
package metrics
