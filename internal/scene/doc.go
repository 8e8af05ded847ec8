// Package scene is a small entity world that sequences can be bound to.
//
// Entities carry generation-checked IDs and keep their components in
// per-type sparse sets. [Actor] implements every capability in package
// host, so a [World] can back the sequencer from the CLI, the baker and
// tests alike.
package scene
