// Package track holds the in-memory trajectory model: raw samples grouped
// into time-ordered tracks, and the densified paths used for playback.
package track

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DefaultID is assigned to every sample when the input has no id column.
const DefaultID = "0"

// Point is a single (lon, lat, time) position. Both the raw tracks and the
// interpolated paths are played back as slices of Points.
type Point struct {
	Lon  float64
	Lat  float64
	Time time.Time
}

// Sample is one raw observation read from the input file.
type Sample struct {
	TrackID string
	Point
	Extra map[string]string // unselected columns carried through unchanged (e.g. depth)
}

// Track is every sample sharing one TrackID, ordered by time.
type Track struct {
	ID      string
	Samples []Sample
}

func (t Track) Start() time.Time { return t.Samples[0].Time }
func (t Track) End() time.Time   { return t.Samples[len(t.Samples)-1].Time }

// Points returns the raw samples as playback points.
func (t Track) Points() []Point {
	pts := make([]Point, len(t.Samples))
	for i, s := range t.Samples {
		pts[i] = s.Point
	}
	return pts
}

func (t Track) String() string {
	return fmt.Sprintf("track %s: %d samples, %s -> %s", t.ID, len(t.Samples),
		t.Start().Format(time.RFC3339), t.End().Format(time.RFC3339))
}

type byTimeAscending []Sample

func (a byTimeAscending) Len() int           { return len(a) }
func (a byTimeAscending) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTimeAscending) Less(i, j int) bool { return a[i].Time.Before(a[j].Time) }

// Dataset is the loaded, read-only set of tracks for one session.
type Dataset struct {
	Tracks  []Track // ordered by ID, see LessID
	Header  []string
	MinTime time.Time
	MaxTime time.Time
}

// Group buckets samples by TrackID and sorts each bucket by time. Samples
// with equal timestamps keep their input order. Tracks come back ordered by
// LessID; an empty input yields an empty Dataset.
func Group(samples []Sample) *Dataset {
	buckets := make(map[string][]Sample)
	var ids []string
	for _, s := range samples {
		if _, ok := buckets[s.TrackID]; !ok {
			ids = append(ids, s.TrackID)
		}
		buckets[s.TrackID] = append(buckets[s.TrackID], s)
	}
	sort.SliceStable(ids, func(i, j int) bool { return LessID(ids[i], ids[j]) })

	ds := &Dataset{}
	for _, id := range ids {
		group := buckets[id]
		if len(group) == 0 {
			continue
		}
		sort.Stable(byTimeAscending(group))
		t := Track{ID: id, Samples: group}
		if len(ds.Tracks) == 0 || t.Start().Before(ds.MinTime) {
			ds.MinTime = t.Start()
		}
		if len(ds.Tracks) == 0 || t.End().After(ds.MaxTime) {
			ds.MaxTime = t.End()
		}
		ds.Tracks = append(ds.Tracks, t)
	}
	return ds
}

// LessID orders track ids numerically when both parse as numbers and
// lexically otherwise.
func LessID(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// Len returns the number of tracks.
func (d *Dataset) Len() int { return len(d.Tracks) }

// SampleCount returns the total number of samples over all tracks.
func (d *Dataset) SampleCount() int {
	n := 0
	for _, t := range d.Tracks {
		n += len(t.Samples)
	}
	return n
}

// Track looks a track up by id.
func (d *Dataset) Track(id string) (Track, bool) {
	for _, t := range d.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// Index returns the position of the track in the dataset, used for palette
// colour assignment, or -1.
func (d *Dataset) Index(id string) int {
	for i, t := range d.Tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// RawPaths returns the raw samples of every track keyed by id.
func (d *Dataset) RawPaths() map[string][]Point {
	paths := make(map[string][]Point, len(d.Tracks))
	for _, t := range d.Tracks {
		paths[t.ID] = t.Points()
	}
	return paths
}

// InterpolatedPaths densifies every track, keyed by id.
func (d *Dataset) InterpolatedPaths() map[string][]Point {
	paths := make(map[string][]Point, len(d.Tracks))
	for _, t := range d.Tracks {
		paths[t.ID] = Interpolate(t)
	}
	return paths
}

// IDs returns the track ids in dataset order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.Tracks))
	for i, t := range d.Tracks {
		ids[i] = t.ID
	}
	return ids
}
