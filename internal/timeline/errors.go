package timeline

import (
	"errors"
	"fmt"
)

// Validation and edit errors.
var (
	// ErrKeyCountMismatch indicates parallel key arrays of different length.
	ErrKeyCountMismatch = errors.New("timeline: parallel key arrays differ in length")

	// ErrKeyTimeMismatch indicates parallel key arrays whose times disagree.
	ErrKeyTimeMismatch = errors.New("timeline: parallel key arrays differ in key times")

	// ErrUnsortedKeys indicates key times that decrease.
	ErrUnsortedKeys = errors.New("timeline: key times are not sorted")

	// ErrMultipleDirectors indicates more than one director group.
	ErrMultipleDirectors = errors.New("timeline: more than one director group")

	// ErrDirectorPlacement indicates a director track outside the director group.
	ErrDirectorPlacement = errors.New("timeline: director track outside the director group")

	// ErrDuplicateGroup indicates two groups sharing a name.
	ErrDuplicateGroup = errors.New("timeline: duplicate group name")

	// ErrEmptyName indicates a group without a name.
	ErrEmptyName = errors.New("timeline: group name is empty")

	// ErrNegativeDuration indicates an authored duration below zero.
	ErrNegativeDuration = errors.New("timeline: negative duration")

	// ErrKeyIndex indicates a key index outside the track.
	ErrKeyIndex = errors.New("timeline: key index out of range")

	// ErrImmovableKey indicates an edit that would remove the identity key
	// of a relative-to-initial movement track.
	ErrImmovableKey = errors.New("timeline: first key of a relative-to-initial track is fixed")
)

// ValidationError locates a structural problem in sequence data.
type ValidationError struct {
	Group string
	Track string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Track == "" {
		return fmt.Sprintf("group %q: %v", e.Group, e.Err)
	}
	return fmt.Sprintf("group %q track %q: %v", e.Group, e.Track, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
