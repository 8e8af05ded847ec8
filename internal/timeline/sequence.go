package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Group bundles the tracks that drive one bound entity.
type Group struct {
	Name string
	// Target names the entity to bind; empty means the group name.
	Target   string
	Director bool
	Folder   bool
	Tracks   []Track
}

func NewGroup(name string, tracks ...Track) *Group {
	return &Group{Name: name, Tracks: tracks}
}

// BindName is the entity name a host should bind this group to.
func (g *Group) BindName() string {
	if g.Target != "" {
		return g.Target
	}
	return g.Name
}

func (g *Group) AddTrack(t Track) {
	g.Tracks = append(g.Tracks, t)
}

// DirectorTrack returns the group's first director track.
func (g *Group) DirectorTrack() *DirectorTrack {
	for _, t := range g.Tracks {
		if d, ok := t.(*DirectorTrack); ok {
			return d
		}
	}
	return nil
}

// SequenceData is the authored timeline. It is not modified by playback.
type SequenceData struct {
	Name string
	// Duration is authored; zero derives it from the last key.
	Duration float64
	Groups   []*Group
}

func (s *SequenceData) AddGroup(g *Group) *Group {
	s.Groups = append(s.Groups, g)
	return g
}

func (s *SequenceData) FindGroup(name string) *Group {
	for _, g := range s.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Director returns the director group, or nil.
func (s *SequenceData) Director() *Group {
	for _, g := range s.Groups {
		if g.Director {
			return g
		}
	}
	return nil
}

// EndTime is the latest key time across all tracks.
func (s *SequenceData) EndTime() float64 {
	end := 0.0
	for _, g := range s.Groups {
		for _, t := range g.Tracks {
			if n := t.NumKeys(); n > 0 {
				end = math.Max(end, t.KeyTime(n-1))
			}
		}
	}
	return end
}

// Length is the playable duration.
func (s *SequenceData) Length() float64 {
	if s.Duration > 0 {
		return s.Duration
	}
	return s.EndTime()
}

// Clamp limits t to [0, Length].
func (s *SequenceData) Clamp(t float64) float64 {
	return clamp(t, 0, s.Length())
}

// Validate checks the structural invariants. All problems are reported,
// joined; each one is a *ValidationError.
func (s *SequenceData) Validate() error {
	var errs []error
	add := func(group, track string, err error) {
		errs = append(errs, &ValidationError{Group: group, Track: track, Err: err})
	}

	if s.Duration < 0 {
		add(s.Name, "", ErrNegativeDuration)
	}

	seen := make(map[string]bool)
	directors := 0
	for _, g := range s.Groups {
		if g.Name == "" {
			add(g.Name, "", ErrEmptyName)
		} else if seen[g.Name] {
			add(g.Name, "", ErrDuplicateGroup)
		}
		seen[g.Name] = true

		if g.Director {
			directors++
			if directors == 2 {
				add(g.Name, "", ErrMultipleDirectors)
			}
		}

		for _, t := range g.Tracks {
			name := t.Info().Name
			if !trackSorted(t) {
				add(g.Name, name, ErrUnsortedKeys)
			}
			switch tr := t.(type) {
			case *MoveTrack:
				if err := tr.checkParallel(); err != nil {
					add(g.Name, name, err)
				}
			case *DirectorTrack:
				if !g.Director {
					add(g.Name, name, ErrDirectorPlacement)
				}
			}
		}
	}
	return errors.Join(errs...)
}

func trackSorted(t Track) bool {
	for i := 1; i < t.NumKeys(); i++ {
		if t.KeyTime(i) < t.KeyTime(i-1) {
			return false
		}
	}
	return true
}

func (m *MoveTrack) checkParallel() error {
	n := m.Pos.Len()
	if m.Euler.Len() != n || len(m.Lookup) != n {
		return fmt.Errorf("%w: pos=%d euler=%d lookup=%d", ErrKeyCountMismatch, n, m.Euler.Len(), len(m.Lookup))
	}
	for i := 0; i < n; i++ {
		if m.Pos.Keys[i].Time != m.Euler.Keys[i].Time || m.Pos.Keys[i].Time != m.Lookup[i].Time {
			return fmt.Errorf("%w: key %d", ErrKeyTimeMismatch, i)
		}
	}
	return nil
}

// Warnings lists references to groups that do not exist. They are not
// errors: playback treats them as no-ops.
func (s *SequenceData) Warnings() []string {
	names := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		names = append(names, g.Name)
	}

	var out []string
	check := func(g *Group, what, ref string) {
		if ref == "" || s.FindGroup(ref) != nil {
			return
		}
		msg := fmt.Sprintf("group %q: %s references unknown group %q", g.Name, what, ref)
		if hint := Suggest(ref, names); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		out = append(out, msg)
	}

	for _, g := range s.Groups {
		for _, t := range g.Tracks {
			switch tr := t.(type) {
			case *MoveTrack:
				check(g, "look-at", tr.LookAt)
				for _, lk := range tr.Lookup {
					check(g, "lookup key", lk.Group)
				}
			case *DirectorTrack:
				for _, c := range tr.Cuts {
					check(g, "cut", c.Target)
				}
			}
		}
	}
	return out
}

// Suggest returns the candidate closest to name by edit distance, or "" when
// nothing is close enough to be a likely typo.
func Suggest(name string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestDist := "", math.MaxInt
	for _, c := range sorted {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}
