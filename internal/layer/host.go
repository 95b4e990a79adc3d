// Package layer is the GIS side of trackview: a small host object model
// (layers of features with symbols and categories), a GeoJSON-backed host
// that writes each layer to disk on repaint, trajectory generation and the
// frame-indexed animation dialog.
package layer

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/paulmach/orb"
)

// GeometryType is the geometry every feature of a layer must have.
type GeometryType string

const (
	Point       GeometryType = "Point"
	LineString  GeometryType = "LineString"
	LineStringZ GeometryType = "LineStringZ"
)

// Level is the severity of a host message.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Critical
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ErrGeometryMismatch is returned when a feature does not fit its layer.
var ErrGeometryMismatch = errors.New("geometry does not match layer")

// Feature is one geometry plus attribute values aligned with the layer's
// fields. Z holds one elevation per vertex for LineStringZ layers.
type Feature struct {
	Geometry orb.Geometry
	Z        []float64
	Attrs    []any
}

// Symbol is how a feature is drawn: a circle marker of Size or a line of
// width Size.
type Symbol struct {
	Shape string
	Color color.RGBA
	Size  float64
}

// CircleSymbol returns a marker symbol.
func CircleSymbol(c color.RGBA, size float64) Symbol {
	return Symbol{Shape: "circle", Color: c, Size: size}
}

// LineSymbol returns a line symbol.
func LineSymbol(c color.RGBA, width float64) Symbol {
	return Symbol{Shape: "line", Color: c, Size: width}
}

// Category styles features whose categorising field equals Value.
type Category struct {
	Value  string
	Label  string
	Symbol Symbol
}

// Message is something pushed to the host's message bar.
type Message struct {
	Title string
	Text  string
	Level Level
}

// Layer is a vector layer owned by a Host.
type Layer interface {
	ID() string
	Name() string
	Geometry() GeometryType
	Fields() []string
	AddFeatures(fs ...Feature) error
	// Truncate removes every feature.
	Truncate()
	Features() []Feature
	SetSymbol(s Symbol)
	// SetCategories styles features by the value of field.
	SetCategories(field string, cats []Category) error
	// UpdateExtents recomputes and returns the bounding box of all features.
	UpdateExtents() orb.Bound
	Repaint() error
}

// Host creates layers and shows messages to the user.
type Host interface {
	CreateLayer(name string, geom GeometryType, crs string, fields []string) (Layer, error)
	PushMessage(title, text string, level Level)
}

// checkFeature validates a feature against the layer geometry and fields.
func checkFeature(geom GeometryType, fields []string, f Feature) error {
	switch geom {
	case Point:
		if _, ok := f.Geometry.(orb.Point); !ok {
			return fmt.Errorf("%w: want point, got %T", ErrGeometryMismatch, f.Geometry)
		}
	case LineString, LineStringZ:
		ls, ok := f.Geometry.(orb.LineString)
		if !ok {
			return fmt.Errorf("%w: want line string, got %T", ErrGeometryMismatch, f.Geometry)
		}
		if len(ls) < 2 {
			return fmt.Errorf("%w: line string needs 2 points, got %d", ErrGeometryMismatch, len(ls))
		}
		if geom == LineStringZ && len(f.Z) != len(ls) {
			return fmt.Errorf("%w: %d z values for %d vertices", ErrGeometryMismatch, len(f.Z), len(ls))
		}
	default:
		return fmt.Errorf("unknown geometry type %q", geom)
	}
	if len(f.Attrs) > len(fields) {
		return fmt.Errorf("%d attributes for %d fields", len(f.Attrs), len(fields))
	}
	return nil
}
