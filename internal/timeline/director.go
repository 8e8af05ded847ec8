package timeline

import "sort"

// Cut switches the viewpoint to Target's entity from Time onward.
type Cut struct {
	Time       float64
	Target     string
	Transition float64
	// SkipCameraReset keeps the last viewpoint when playback ends on this cut.
	SkipCameraReset bool
}

func (c Cut) keyTime() float64       { return c.Time }
func (c Cut) withTime(t float64) Cut { c.Time = t; return c }

// DirectorTrack lives on the director group and selects the viewed group.
type DirectorTrack struct {
	TrackInfo
	Cuts []Cut
}

func NewDirectorTrack(name string) *DirectorTrack {
	return &DirectorTrack{TrackInfo: TrackInfo{Name: name}}
}

func (*DirectorTrack) Kind() Kind              { return KindDirector }
func (d *DirectorTrack) NumKeys() int          { return len(d.Cuts) }
func (d *DirectorTrack) KeyTime(i int) float64 { return d.Cuts[i].Time }

func (d *DirectorTrack) AddKey(at float64) int {
	return d.AddCut(Cut{Time: at})
}

func (d *DirectorTrack) AddCut(c Cut) int {
	var idx int
	d.Cuts, idx = insertKey(d.Cuts, c)
	return idx
}

func (d *DirectorTrack) RemoveKey(i int) (err error) {
	d.Cuts, err = removeKey(d.Cuts, i)
	return err
}

func (d *DirectorTrack) MoveKey(i int, at float64) (idx int, err error) {
	d.Cuts, idx, err = moveKey(d.Cuts, i, at)
	return idx, err
}

func (d *DirectorTrack) DuplicateKey(i int, at float64) (idx int, err error) {
	d.Cuts, idx, err = duplicateKey(d.Cuts, i, at)
	return idx, err
}

// CutAt returns the index of the greatest cut with time <= t, or -1.
func (d *DirectorTrack) CutAt(t float64) int {
	return lastAtOrBefore(d.Cuts, t)
}

// ViewedGroup returns the group viewed at t. Before the first cut, or on a
// cut with no target, the director group itself (self) is viewed.
func (d *DirectorTrack) ViewedGroup(t float64, self string) (group string, transition float64) {
	i := d.CutAt(t)
	if i < 0 || d.Cuts[i].Target == "" {
		return self, 0
	}
	return d.Cuts[i].Target, d.Cuts[i].Transition
}

// Upcoming lists cuts with after < time <= after+horizon.
func (d *DirectorTrack) Upcoming(after, horizon float64) []Cut {
	start := sort.Search(len(d.Cuts), func(i int) bool { return d.Cuts[i].Time > after })
	var out []Cut
	for i := start; i < len(d.Cuts) && d.Cuts[i].Time <= after+horizon; i++ {
		out = append(out, d.Cuts[i])
	}
	return out
}
