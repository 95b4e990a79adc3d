// Package viewport maps lon/lat onto screen pixels with a simple
// equirectangular affine transform and derives zoom and grid layout.
package viewport

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/trackview/internal/track"
)

// Zoom bounds.
const (
	MinZoom = 1.0
	MaxZoom = 20.0

	// fitPadding widens the active bounding box before fitting.
	fitPadding = 1.25
)

// View is the map state a frame is drawn with.
type View struct {
	CenterLon float64
	CenterLat float64
	Zoom      float64
}

// Projector converts between geographic and screen coordinates for a
// window of Width x Height pixels. The whole globe spans the window at
// zoom 1.
type Projector struct {
	Width  float64
	Height float64
}

// NewProjector returns a Projector for a w x h window.
func NewProjector(w, h int) Projector {
	return Projector{Width: float64(w), Height: float64(h)}
}

// Project maps lat/lon to screen x/y.
func (p Projector) Project(lat, lon float64, v View) (x, y float64) {
	x = (lon-v.CenterLon)*(p.Width/360)*v.Zoom + p.Width/2
	y = (v.CenterLat-lat)*(p.Height/180)*v.Zoom + p.Height/2
	return x, y
}

// Unproject is the inverse of Project.
func (p Projector) Unproject(x, y float64, v View) (lat, lon float64) {
	lon = (x-p.Width/2)/(p.Width/360)/v.Zoom + v.CenterLon
	lat = v.CenterLat - (y-p.Height/2)/(p.Height/180)/v.Zoom
	return lat, lon
}

// ClampZoom limits z to [MinZoom, max].
func ClampZoom(z, max float64) float64 {
	if max < MinZoom {
		max = MaxZoom
	}
	return math.Max(MinZoom, math.Min(max, z))
}

// Bound returns the bounding box of points.
func Bound(points []track.Point) orb.Bound {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.Lon, p.Lat}
	}
	return mp.Bound()
}

// AutoZoom fits the active positions with 25% padding, limited to
// MaxZoom. A zero-span axis does not constrain the result.
func AutoZoom(points []track.Point) float64 {
	return AutoZoomMax(points, MaxZoom)
}

// AutoZoomMax is AutoZoom with a configurable ceiling.
func AutoZoomMax(points []track.Point, maxZoom float64) float64 {
	if len(points) == 0 {
		return 1.0
	}
	b := Bound(points)

	zoom := maxZoom
	if latSpan := (b.Max.Lat() - b.Min.Lat()) * fitPadding; latSpan > 0 {
		zoom = math.Min(zoom, 180/latSpan)
	}
	if lonSpan := (b.Max.Lon() - b.Min.Lon()) * fitPadding; lonSpan > 0 {
		zoom = math.Min(zoom, 360/lonSpan)
	}
	return ClampZoom(zoom, maxZoom)
}

// WheelZoom applies one wheel notch: x1.1 up, x0.9 down, clamped.
func WheelZoom(zoom float64, up bool) float64 {
	if up {
		zoom *= 1.1
	} else {
		zoom *= 0.9
	}
	return ClampZoom(zoom, MaxZoom)
}

// Center is the mean position of points, or fallback when there are none.
func Center(points []track.Point, fallback orb.Point) orb.Point {
	if len(points) == 0 {
		return fallback
	}
	lons := make([]float64, len(points))
	lats := make([]float64, len(points))
	for i, p := range points {
		lons[i], lats[i] = p.Lon, p.Lat
	}
	return orb.Point{stat.Mean(lons, nil), stat.Mean(lats, nil)}
}
