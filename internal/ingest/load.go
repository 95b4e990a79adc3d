package ingest

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/banshee-data/trackview/internal/prompt"
	"github.com/banshee-data/trackview/internal/reproject"
	"github.com/banshee-data/trackview/internal/track"
)

// Fixed column names used by the GIS plugin variant.
const (
	FieldID        = "drone_id"
	FieldLongitude = "longitude"
	FieldLatitude  = "latitude"
	FieldDepth     = "depth"
	FieldTimestamp = "timestamp"
)

// RequiredFields must all be present for the plugin variant's file picker.
var RequiredFields = []string{FieldID, FieldLongitude, FieldLatitude, FieldDepth, FieldTimestamp}

// Reprojector converts source x/y into lon/lat degrees.
type Reprojector interface {
	ToLonLat(x, y float64) (lon, lat float64, err error)
}

// ReprojectorFactory builds a Reprojector for a CRS identifier.
type ReprojectorFactory func(crs string) (Reprojector, error)

// DefaultFactory uses the reproject package.
func DefaultFactory(crs string) (Reprojector, error) {
	return reproject.New(crs)
}

// ParseTime parses a timestamp cell. Values without an offset are UTC.
func ParseTime(s string) (time.Time, error) {
	return dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
}

// Load converts table rows into a dataset. Rows missing x, y or time are
// dropped, as are rows with a missing id when an id column is selected.
// Any other unparsable cell aborts the load.
func Load(t *Table, sel Selection, rp Reprojector) (*track.Dataset, error) {
	if err := sel.Validate(t.Header); err != nil {
		return nil, err
	}

	roles := map[int]bool{sel.X.Index: true, sel.Y.Index: true, sel.Time.Index: true}
	if sel.ID != nil {
		roles[sel.ID.Index] = true
	}

	samples := make([]track.Sample, 0, len(t.Rows))
	dropped := 0
	for i, row := range t.Rows {
		line := i + 2
		xs, ys, ts := row[sel.X.Index], row[sel.Y.Index], row[sel.Time.Index]
		if IsNull(xs) || IsNull(ys) || IsNull(ts) {
			dropped++
			continue
		}
		id := track.DefaultID
		if sel.ID != nil {
			cell := row[sel.ID.Index]
			if IsNull(cell) {
				dropped++
				continue
			}
			id = strings.TrimSpace(cell)
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, &DataValidationError{Row: line, Column: sel.X.Name, Reason: "not a number", Err: err}
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, &DataValidationError{Row: line, Column: sel.Y.Name, Reason: "not a number", Err: err}
		}
		when, err := ParseTime(ts)
		if err != nil {
			return nil, &DataValidationError{Row: line, Column: sel.Time.Name, Reason: "unparsable timestamp", Err: err}
		}
		lon, lat, err := rp.ToLonLat(x, y)
		if err != nil {
			return nil, &DataValidationError{Row: line, Reason: "reprojection failed", Err: err}
		}

		var extra map[string]string
		for j, cell := range row {
			if roles[j] {
				continue
			}
			if extra == nil {
				extra = make(map[string]string, len(row)-len(roles))
			}
			extra[t.Header[j]] = cell
		}

		samples = append(samples, track.Sample{
			TrackID: id,
			Point:   track.Point{Lon: lon, Lat: lat, Time: when},
			Extra:   extra,
		})
	}

	if len(samples) == 0 {
		return nil, &DataValidationError{Reason: "no rows with x, y and time values"}
	}
	if dropped > 0 {
		log.Printf("[ingest] dropped %d rows with missing values", dropped)
	}

	ds := track.Group(samples)
	ds.Header = t.Header
	return ds, nil
}

// LoadInteractive runs the standalone load flow: choose file, choose
// columns, enter source CRS, load. Any cancelled prompt returns an error
// matching ErrCancelled.
func LoadInteractive(p prompt.Prompter, defaultCRS string, factory ReprojectorFactory) (*track.Dataset, error) {
	if factory == nil {
		factory = DefaultFactory
	}

	path, err := p.OpenFile("Select CSV", []prompt.FileFilter{{Name: "CSV Files", Patterns: []string{"*.csv"}}})
	if err != nil {
		return nil, fmt.Errorf("no file selected: %w", err)
	}
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}

	sel, err := SelectColumns(p, t.Header)
	if err != nil {
		return nil, fmt.Errorf("column selection: %w", err)
	}

	crs, err := p.Entry("Projection", "Enter projection (e.g., EPSG:4326)", defaultCRS)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	rp, err := factory(crs)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}

	ds, err := Load(t, sel, rp)
	if err != nil {
		return nil, err
	}
	log.Printf("[ingest] loaded %d tracks, %d samples from %s", ds.Len(), ds.SampleCount(), path)
	for _, tr := range ds.Tracks {
		log.Printf("[ingest] %s", tr)
	}
	return ds, nil
}

// LoadFixed loads a file using the plugin variant's fixed column names in
// EPSG:4326. The id column is optional.
func LoadFixed(path string) (*track.Dataset, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return LoadFixedTable(t)
}

// LoadFixedTable is LoadFixed for an already read table.
func LoadFixedTable(t *Table) (*track.Dataset, error) {
	var sel Selection
	var missing []string
	for _, f := range []struct {
		name string
		dst  *ColumnRef
	}{
		{FieldLongitude, &sel.X},
		{FieldLatitude, &sel.Y},
		{FieldTimestamp, &sel.Time},
	} {
		ref, ok := ColumnByName(t.Header, f.name)
		if !ok {
			missing = append(missing, f.name)
			continue
		}
		*f.dst = ref
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &DataValidationError{Reason: "missing columns: " + strings.Join(missing, ", ")}
	}
	if ref, ok := ColumnByName(t.Header, FieldID); ok {
		sel.ID = &ref
	}

	rp, err := reproject.New(reproject.WGS84)
	if err != nil {
		return nil, err
	}
	return Load(t, sel, rp)
}

// ValidateFields checks that the CSV header contains every required column.
func ValidateFields(path string, required []string) error {
	t, err := ReadTable(path)
	if err != nil {
		return err
	}
	return ValidateHeader(t.Header, required)
}

// ValidateHeader reports required names absent from header, sorted.
func ValidateHeader(header, required []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, r := range required {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &DataValidationError{Reason: "missing columns: " + strings.Join(missing, ", ")}
}
