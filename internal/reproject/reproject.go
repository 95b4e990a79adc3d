// Package reproject converts projected coordinates to EPSG:4326 lon/lat.
package reproject

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-spatial/proj"
)

// WGS84 is the target CRS of every conversion.
const WGS84 = "EPSG:4326"

// UnsupportedCRSError reports a CRS identifier that cannot be converted.
type UnsupportedCRSError struct {
	CRS string
}

func (e *UnsupportedCRSError) Error() string {
	return fmt.Sprintf("unsupported CRS %q (supported: %s)", e.CRS, strings.Join(Supported(), ", "))
}

var known = map[int]proj.EPSGCode{
	3395: proj.EPSG3395,
	3857: proj.EPSG3857,
	4087: proj.EPSG4087,
	4326: proj.EPSG4326,
}

// Supported lists the accepted source CRS identifiers.
func Supported() []string {
	return []string{"EPSG:3395", "EPSG:3857", "EPSG:4087", "EPSG:4326"}
}

// Transformer converts x/y in a source CRS to lon/lat.
type Transformer struct {
	source   string
	code     proj.EPSGCode
	identity bool
}

// ParseCode extracts the EPSG number from "EPSG:3857", "epsg:3857" or "3857".
// "WGS84" and "CRS84" map to 4326.
func ParseCode(crs string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(crs))
	switch s {
	case "WGS84", "CRS84", "OGC:CRS84":
		return 4326, nil
	}
	s = strings.TrimPrefix(s, "EPSG:")
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, &UnsupportedCRSError{CRS: crs}
	}
	return code, nil
}

// New returns a Transformer from crs to EPSG:4326.
func New(crs string) (*Transformer, error) {
	n, err := ParseCode(crs)
	if err != nil {
		return nil, err
	}
	code, ok := known[n]
	if !ok {
		return nil, &UnsupportedCRSError{CRS: crs}
	}
	return &Transformer{
		source:   fmt.Sprintf("EPSG:%d", n),
		code:     code,
		identity: n == 4326,
	}, nil
}

// Source returns the normalised source CRS identifier.
func (t *Transformer) Source() string { return t.source }

// ToLonLat converts a single coordinate.
func (t *Transformer) ToLonLat(x, y float64) (lon, lat float64, err error) {
	if t.identity {
		return x, y, nil
	}
	out, err := proj.Inverse(t.code, []float64{x, y})
	if err != nil {
		return 0, 0, fmt.Errorf("reproject %s (%g, %g): %w", t.source, x, y, err)
	}
	return out[0], out[1], nil
}
