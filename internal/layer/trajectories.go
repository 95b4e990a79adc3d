package layer

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/banshee-data/trackview/internal/ingest"
	"github.com/banshee-data/trackview/internal/reproject"
	"github.com/banshee-data/trackview/internal/track"
)

// Layer names created by the plugin.
const (
	PointsLayerName       = "Drone Points"
	TrajectoriesLayerName = "Trajectories"
	AnimationLayerName    = "Animation Lines"
)

// Attribute names of trajectory lines.
const (
	FieldStart = "start"
	FieldEnd   = "end"
)

var (
	pointsSymbol     = CircleSymbol(mustColor("30,144,255"), 3)
	trajectorySymbol = LineSymbol(mustColor("255,50,100"), 0.8)
)

// Trajectories is the output of GenerateTrajectories.
type Trajectories struct {
	Points Layer
	Lines  Layer
	// Tracks is the number of tracks long enough to draw a line.
	Tracks int
}

// GenerateFromFile validates and loads path with the plugin's fixed columns,
// then generates trajectory layers. Failures are also pushed to the host as
// critical messages.
func GenerateFromFile(h Host, path string) (*Trajectories, error) {
	ds, err := loadForPlugin(path)
	if err != nil {
		h.PushMessage("Error", fmt.Sprintf("Error: %v", err), Critical)
		return nil, err
	}
	return GenerateTrajectories(h, ds)
}

func loadForPlugin(path string) (*track.Dataset, error) {
	if path == "" {
		return nil, fmt.Errorf("no CSV file selected: %w", ingest.ErrCancelled)
	}
	if err := ingest.ValidateFields(path, ingest.RequiredFields); err != nil {
		return nil, err
	}
	return ingest.LoadFixed(path)
}

// GenerateTrajectories adds a points layer with every sample and a
// LineStringZ layer with one line per track of two or more samples, z taken
// from the depth column.
func GenerateTrajectories(h Host, ds *track.Dataset) (*Trajectories, error) {
	out, err := generate(h, ds)
	if err != nil {
		h.PushMessage("Error", fmt.Sprintf("Error: %v", err), Critical)
		return nil, err
	}
	h.PushMessage("Success", "Trajectories generated", Success)
	log.Printf("[layer] generated %d trajectories from %d samples", out.Tracks, ds.SampleCount())
	return out, nil
}

func generate(h Host, ds *track.Dataset) (*Trajectories, error) {
	header := ds.Header
	if len(header) == 0 {
		header = []string{ingest.FieldID, ingest.FieldLongitude, ingest.FieldLatitude, ingest.FieldTimestamp}
	}
	points, err := h.CreateLayer(PointsLayerName, Point, reproject.WGS84, header)
	if err != nil {
		return nil, err
	}
	var pfs []Feature
	for _, tr := range ds.Tracks {
		for _, s := range tr.Samples {
			pfs = append(pfs, Feature{
				Geometry: orb.Point{s.Lon, s.Lat},
				Attrs:    sampleAttrs(header, s),
			})
		}
	}
	if err := points.AddFeatures(pfs...); err != nil {
		return nil, err
	}
	points.SetSymbol(pointsSymbol)

	lines, err := h.CreateLayer(TrajectoriesLayerName, LineStringZ, reproject.WGS84,
		[]string{ingest.FieldID, FieldStart, FieldEnd})
	if err != nil {
		return nil, err
	}
	n := 0
	for _, tr := range ds.Tracks {
		if len(tr.Samples) < 2 {
			continue
		}
		ls := make(orb.LineString, len(tr.Samples))
		z := make([]float64, len(tr.Samples))
		for i, s := range tr.Samples {
			ls[i] = orb.Point{s.Lon, s.Lat}
			z[i] = depth(s)
		}
		f := Feature{
			Geometry: ls,
			Z:        z,
			Attrs:    []any{tr.ID, isoTime(tr.Start()), isoTime(tr.End())},
		}
		if err := lines.AddFeatures(f); err != nil {
			return nil, err
		}
		n++
	}
	lines.SetSymbol(trajectorySymbol)

	for _, l := range []Layer{points, lines} {
		l.UpdateExtents()
		if err := l.Repaint(); err != nil {
			return nil, err
		}
	}
	return &Trajectories{Points: points, Lines: lines, Tracks: n}, nil
}

// sampleAttrs lays a sample out along the CSV header.
func sampleAttrs(header []string, s track.Sample) []any {
	attrs := make([]any, len(header))
	for i, name := range header {
		switch name {
		case ingest.FieldID:
			attrs[i] = s.TrackID
		case ingest.FieldLongitude:
			attrs[i] = s.Lon
		case ingest.FieldLatitude:
			attrs[i] = s.Lat
		case ingest.FieldTimestamp:
			attrs[i] = isoTime(s.Time)
		default:
			attrs[i] = s.Extra[name]
		}
	}
	return attrs
}

// depth reads the depth column; missing or unparsable values are 0.
func depth(s track.Sample) float64 {
	v, err := strconv.ParseFloat(s.Extra[ingest.FieldDepth], 64)
	if err != nil {
		return 0
	}
	return v
}

func isoTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
