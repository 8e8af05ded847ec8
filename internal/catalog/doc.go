// Package catalog holds the built-in sequences, each paired with a scene
// that binds every group.
//
//   - linear: a single world-space slide
//   - flyby: parenting, cuts, props, sounds and animation
//   - cuts: director cuts with fade, slomo and master audio
//   - orbit: relative-to-initial movement, look-at and lookups
//   - events: one-shot markers, toggles and visibility
package catalog
