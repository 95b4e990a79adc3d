package viewport

import (
	"fmt"
	"math"
)

// gridIntervals are the candidate graticule spacings in degrees.
var gridIntervals = []float64{0.5, 1, 2, 5, 10, 15, 30, 45, 90}

// gridMargin is how far off-screen, in pixels, a line may sit and still be drawn.
const gridMargin = 50

// GridSpacing picks the interval nearest to max(0.5, 20/zoom). Ties go to
// the smaller interval.
func GridSpacing(zoom float64) float64 {
	target := math.Max(0.5, 20/zoom)
	best := gridIntervals[0]
	for _, iv := range gridIntervals[1:] {
		if math.Abs(iv-target) < math.Abs(best-target) {
			best = iv
		}
	}
	return best
}

// GridLine is one graticule line in screen space. Vertical lines are
// meridians at x = Pos; horizontal lines are parallels at y = Pos.
type GridLine struct {
	Vertical bool
	Pos      float64
	Degrees  float64
	Label    string
}

// LonLabel formats a longitude like "12.0°E".
func LonLabel(lon float64) string {
	hemi := "E"
	if lon < 0 {
		hemi = "W"
	}
	return fmt.Sprintf("%.1f°%s", math.Abs(lon), hemi)
}

// LatLabel formats a latitude like "3.5°S".
func LatLabel(lat float64) string {
	hemi := "N"
	if lat < 0 {
		hemi = "S"
	}
	return fmt.Sprintf("%.1f°%s", math.Abs(lat), hemi)
}

// GridLines returns every other graticule line across the visible span,
// meridians first.
func (p Projector) GridLines(v View) []GridLine {
	spacing := GridSpacing(v.Zoom)
	halfW := 360 / v.Zoom / 2
	halfH := 180 / v.Zoom / 2
	west, east := v.CenterLon-halfW, v.CenterLon+halfW
	south, north := v.CenterLat-halfH, v.CenterLat+halfH

	var lines []GridLine
	start := math.Trunc(west/spacing) * spacing
	for k := 0; ; k++ {
		lon := start + float64(k)*2*spacing
		if lon > east+spacing {
			break
		}
		x, _ := p.Project(0, lon, v)
		if x >= -gridMargin && x <= p.Width+gridMargin {
			lines = append(lines, GridLine{Vertical: true, Pos: x, Degrees: lon, Label: LonLabel(lon)})
		}
	}

	start = math.Trunc(south/spacing) * spacing
	for k := 0; ; k++ {
		lat := start + float64(k)*2*spacing
		if lat > north+spacing {
			break
		}
		_, y := p.Project(lat, 0, v)
		if y >= -gridMargin && y <= p.Height+gridMargin {
			lines = append(lines, GridLine{Pos: y, Degrees: lat, Label: LatLabel(lat)})
		}
	}
	return lines
}
