package layer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"

	"github.com/banshee-data/trackview/internal/reproject"
)

// GeoJSONHost keeps layers in memory and writes each one to
// <dir>/<name>.geojson when it is repainted. Symbols and categories are
// written as simplestyle properties.
type GeoJSONHost struct {
	dir string

	mu       sync.Mutex
	layers   []*GeoJSONLayer
	messages []Message
}

// NewGeoJSONHost creates dir if needed.
func NewGeoJSONHost(dir string) (*GeoJSONHost, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layer dir: %w", err)
	}
	return &GeoJSONHost{dir: dir}, nil
}

// Dir returns the output directory.
func (h *GeoJSONHost) Dir() string { return h.dir }

// CreateLayer adds a layer. GeoJSON is always WGS84, so crs must be
// EPSG:4326.
func (h *GeoJSONHost) CreateLayer(name string, geom GeometryType, crs string, fields []string) (Layer, error) {
	if name == "" {
		return nil, fmt.Errorf("layer name is empty")
	}
	switch geom {
	case Point, LineString, LineStringZ:
	default:
		return nil, fmt.Errorf("unknown geometry type %q", geom)
	}
	if code, err := reproject.ParseCode(crs); err != nil || code != 4326 {
		return nil, &reproject.UnsupportedCRSError{CRS: crs}
	}

	l := &GeoJSONLayer{
		id:     uuid.NewString(),
		name:   name,
		geom:   geom,
		fields: append([]string(nil), fields...),
		path:   filepath.Join(h.dir, fileName(name)),
	}
	h.mu.Lock()
	h.layers = append(h.layers, l)
	h.mu.Unlock()
	log.Printf("[layer] created %s %q (%s)", geom, name, l.id)
	return l, nil
}

// PushMessage records and logs a message.
func (h *GeoJSONHost) PushMessage(title, text string, level Level) {
	h.mu.Lock()
	h.messages = append(h.messages, Message{Title: title, Text: text, Level: level})
	h.mu.Unlock()
	log.Printf("[layer] %s: %s: %s", level, title, text)
}

// Messages returns every message pushed so far.
func (h *GeoJSONHost) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Message(nil), h.messages...)
}

// Layers returns the layers in creation order.
func (h *GeoJSONHost) Layers() []*GeoJSONLayer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*GeoJSONLayer(nil), h.layers...)
}

func fileName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	return s + ".geojson"
}

// GeoJSONLayer is a Layer of a GeoJSONHost.
type GeoJSONLayer struct {
	id     string
	name   string
	geom   GeometryType
	fields []string
	path   string

	mu         sync.Mutex
	features   []Feature
	symbol     *Symbol
	catField   string
	categories map[string]Category
	extents    orb.Bound
	repaints   int
}

func (l *GeoJSONLayer) ID() string             { return l.id }
func (l *GeoJSONLayer) Name() string           { return l.name }
func (l *GeoJSONLayer) Geometry() GeometryType { return l.geom }
func (l *GeoJSONLayer) Fields() []string       { return l.fields }

// Path is the file written by Repaint.
func (l *GeoJSONLayer) Path() string { return l.path }

// Repaints counts Repaint calls.
func (l *GeoJSONLayer) Repaints() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repaints
}

// AddFeatures appends features; nothing is added if any one is invalid.
func (l *GeoJSONLayer) AddFeatures(fs ...Feature) error {
	for i, f := range fs {
		if err := checkFeature(l.geom, l.fields, f); err != nil {
			return fmt.Errorf("layer %q feature %d: %w", l.name, i, err)
		}
	}
	l.mu.Lock()
	l.features = append(l.features, fs...)
	l.mu.Unlock()
	return nil
}

func (l *GeoJSONLayer) Truncate() {
	l.mu.Lock()
	l.features = nil
	l.mu.Unlock()
}

func (l *GeoJSONLayer) Features() []Feature {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Feature(nil), l.features...)
}

func (l *GeoJSONLayer) SetSymbol(s Symbol) {
	l.mu.Lock()
	l.symbol = &s
	l.mu.Unlock()
}

func (l *GeoJSONLayer) SetCategories(field string, cats []Category) error {
	if l.fieldIndex(field) < 0 {
		return fmt.Errorf("layer %q has no field %q", l.name, field)
	}
	m := make(map[string]Category, len(cats))
	for _, c := range cats {
		m[c.Value] = c
	}
	l.mu.Lock()
	l.catField = field
	l.categories = m
	l.mu.Unlock()
	return nil
}

func (l *GeoJSONLayer) fieldIndex(name string) int {
	for i, f := range l.fields {
		if f == name {
			return i
		}
	}
	return -1
}

func (l *GeoJSONLayer) UpdateExtents() orb.Bound {
	l.mu.Lock()
	defer l.mu.Unlock()
	var b orb.Bound
	for i, f := range l.features {
		if i == 0 {
			b = f.Geometry.Bound()
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	l.extents = b
	return b
}

// Extents returns the bounds from the last UpdateExtents.
func (l *GeoJSONLayer) Extents() orb.Bound {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.extents
}

// Repaint writes the layer to its file.
func (l *GeoJSONLayer) Repaint() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repaints++

	data, err := l.featureCollection().MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode layer %q: %w", l.name, err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write layer %q: %w", l.name, err)
	}
	return nil
}

func (l *GeoJSONLayer) featureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	catIdx := l.fieldIndex(l.catField)
	for i, f := range l.features {
		gf := l.encode(f)
		gf.ID = i
		for j, v := range f.Attrs {
			gf.SetProperty(l.fields[j], v)
		}

		sym := l.symbol
		if catIdx >= 0 && catIdx < len(f.Attrs) {
			if c, ok := l.categories[fmt.Sprint(f.Attrs[catIdx])]; ok {
				sym = &c.Symbol
			}
		}
		if sym != nil {
			l.style(gf, *sym)
		}
		fc.AddFeature(gf)
	}
	return fc
}

func (l *GeoJSONLayer) encode(f Feature) *geojson.Feature {
	switch g := f.Geometry.(type) {
	case orb.Point:
		return geojson.NewPointFeature([]float64{g.Lon(), g.Lat()})
	case orb.LineString:
		coords := make([][]float64, len(g))
		for i, p := range g {
			if l.geom == LineStringZ {
				coords[i] = []float64{p.Lon(), p.Lat(), f.Z[i]}
			} else {
				coords[i] = []float64{p.Lon(), p.Lat()}
			}
		}
		return geojson.NewLineStringFeature(coords)
	}
	// checkFeature rejects everything else
	return geojson.NewFeature(nil)
}

func (l *GeoJSONLayer) style(gf *geojson.Feature, s Symbol) {
	if l.geom == Point {
		gf.SetProperty("marker-symbol", s.Shape)
		gf.SetProperty("marker-color", Hex(s.Color))
		gf.SetProperty("marker-size", s.Size)
		return
	}
	gf.SetProperty("stroke", Hex(s.Color))
	gf.SetProperty("stroke-width", s.Size)
}
