package reproject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"EPSG:4326", 4326, false},
		{"epsg:3857", 3857, false},
		{" 3395 ", 3395, false},
		{"WGS84", 4326, false},
		{"EPSG:", 0, true},
		{"mercator", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity(t *testing.T) {
	tr, err := New("EPSG:4326")
	require.NoError(t, err)
	assert.Equal(t, "EPSG:4326", tr.Source())

	lon, lat, err := tr.ToLonLat(5.01, 43.01)
	require.NoError(t, err)
	assert.Equal(t, 5.01, lon)
	assert.Equal(t, 43.01, lat)
}

func TestWebMercatorOrigin(t *testing.T) {
	tr, err := New("EPSG:3857")
	require.NoError(t, err)

	lon, lat, err := tr.ToLonLat(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, lon, 1e-9)
	assert.InDelta(t, 0, lat, 1e-9)

	// one degree of longitude at the equator
	lon, _, err = tr.ToLonLat(111319.49079327357, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, lon, 1e-6)
}

func TestUnsupported(t *testing.T) {
	_, err := New("EPSG:27700")
	var ue *UnsupportedCRSError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "EPSG:27700", ue.CRS)
	assert.Contains(t, err.Error(), "EPSG:3857")
}
