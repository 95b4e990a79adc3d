package track

import (
	"math"
	"time"
)

// Interpolation step bounds per segment.
const (
	MinSegmentSteps = 5
	MaxSegmentSteps = 50
	stepsPerDegree  = 100
)

// PlanarDistance is the euclidean distance between two points in degree
// space. It is only used to size interpolation and is not a ground distance.
func PlanarDistance(a, b Point) float64 {
	return math.Hypot(b.Lon-a.Lon, b.Lat-a.Lat)
}

// SegmentSteps returns how many points a segment is split into:
// round(distance*100) clamped to [MinSegmentSteps, MaxSegmentSteps].
func SegmentSteps(a, b Point) int {
	steps := int(math.Round(PlanarDistance(a, b) * stepsPerDegree))
	if steps < MinSegmentSteps {
		return MinSegmentSteps
	}
	if steps > MaxSegmentSteps {
		return MaxSegmentSteps
	}
	return steps
}

// Interpolate densifies a track for smooth playback. Each segment between
// consecutive samples contributes its start point plus steps-1 linearly
// interpolated points (fraction s/steps for s in [0, steps)); the segment
// end is emitted as the start of the following segment, so the final sample
// of a multi-sample track is not part of the path. A one-sample track
// yields that sample alone.
//
// The result is a pure function of the samples.
func Interpolate(t Track) []Point {
	n := len(t.Samples)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Point{t.Samples[0].Point}
	}

	var path []Point
	for i := 0; i < n-1; i++ {
		p1, p2 := t.Samples[i].Point, t.Samples[i+1].Point
		steps := SegmentSteps(p1, p2)
		dLon := p2.Lon - p1.Lon
		dLat := p2.Lat - p1.Lat
		span := p2.Time.Sub(p1.Time)
		for s := 0; s < steps; s++ {
			f := float64(s) / float64(steps)
			path = append(path, Point{
				Lon:  p1.Lon + f*dLon,
				Lat:  p1.Lat + f*dLat,
				Time: p1.Time.Add(time.Duration(float64(span) * f)),
			})
		}
	}
	return path
}
