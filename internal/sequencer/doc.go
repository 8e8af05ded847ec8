// Package sequencer plays authored timeline data against bound host entities.
//
// A [Sequencer] owns the play position and one [GroupInstance] per group of
// the sequence while bound. Each frame it evaluates every enabled track at
// the new position:
//
//   - [Sequencer.Tick]: advance by dt, wrapping or stopping at the ends
//   - [Sequencer.SetPosition]: scrub or jump, binding temporarily when stopped
//   - [Sequencer.Preview]: apply state without firing one-shots
//
// Discrete keys fire exactly once per crossing in either direction; see
// [Crossings]. The package is not safe for concurrent use.
package sequencer
