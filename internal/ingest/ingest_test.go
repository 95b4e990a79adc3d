package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackview/internal/prompt"
	"github.com/banshee-data/trackview/internal/testutil"
	"github.com/banshee-data/trackview/internal/track"
)

type identity struct{}

func (identity) ToLonLat(x, y float64) (float64, float64, error) { return x, y, nil }

func mustTable(t *testing.T, lines ...string) *Table {
	t.Helper()
	tbl, err := ParseTable(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return tbl
}

func TestParseTable(t *testing.T) {
	tbl := mustTable(t,
		"\ufeffx, y ,time",
		"1,2,2024-01-01",
		"3,4",
	)
	assert.Equal(t, []string{"x", "y", "time"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"3", "4", ""}, tbl.Rows[1], "short rows are padded")
	assert.Equal(t, 1, tbl.Index("y"))
	assert.Equal(t, -1, tbl.Index("z"))
}

func TestParseTableEmpty(t *testing.T) {
	_, err := ParseTable(strings.NewReader(""))
	var dv *DataValidationError
	assert.True(t, errors.As(err, &dv))
}

func TestIsNull(t *testing.T) {
	for _, s := range []string{"", " ", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<NA>"} {
		assert.True(t, IsNull(s), "%q should be null", s)
	}
	for _, s := range []string{"0", "none?", "x"} {
		assert.False(t, IsNull(s), "%q should not be null", s)
	}
}

func TestParseColumnChoice(t *testing.T) {
	header := []string{"lon", "lat", "time"}
	tests := []struct {
		answer  string
		want    ColumnRef
		wantErr bool
	}{
		{"1", ColumnRef{Index: 0, Name: "lon"}, false},
		{" 3 ", ColumnRef{Index: 2, Name: "time"}, false},
		{"lat", ColumnRef{Index: 1, Name: "lat"}, false},
		{"0", ColumnRef{}, true},
		{"4", ColumnRef{}, true},
		{"abc", ColumnRef{}, true},
		{"", ColumnRef{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColumnChoice(tt.answer, header)
		if tt.wantErr {
			var ie *InvalidInputError
			assert.True(t, errors.As(err, &ie), "answer %q", tt.answer)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseColumnChoiceNumericHeader(t *testing.T) {
	header := []string{"2", "1", "t"}

	got, err := ParseColumnChoice("1", header)
	require.NoError(t, err)
	assert.Equal(t, ColumnRef{Index: 1, Name: "1"}, got, "header name beats position")

	got, err = ParseColumnChoice("2", header)
	require.NoError(t, err)
	assert.Equal(t, ColumnRef{Index: 0, Name: "2"}, got)

	got, err = ParseColumnChoice("3", header)
	require.NoError(t, err)
	assert.Equal(t, ColumnRef{Index: 2, Name: "t"}, got, "no such name, falls back to position")
}

func TestSelectColumns(t *testing.T) {
	header := []string{"id", "x", "y", "t"}

	sel, err := SelectColumns(prompt.NewScripted("2", "3", "4", "1"), header)
	require.NoError(t, err)
	assert.Equal(t, "x", sel.X.Name)
	assert.Equal(t, "y", sel.Y.Name)
	assert.Equal(t, "t", sel.Time.Name)
	require.NotNil(t, sel.ID)
	assert.Equal(t, "id", sel.ID.Name)

	sel, err = SelectColumns(prompt.NewScripted("2", "3", "4", ""), header)
	require.NoError(t, err)
	assert.Nil(t, sel.ID, "blank id answer means default id")

	_, err = SelectColumns(prompt.NewScripted("2", "x9"), header)
	var ie *InvalidInputError
	assert.True(t, errors.As(err, &ie))

	_, err = SelectColumns(prompt.NewScripted("2", prompt.Cancel), header)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestLoadTwoRowScenario(t *testing.T) {
	tbl := mustTable(t,
		"x,y,t",
		"5.00,43.00,2024-01-01T00:00:00",
		"5.01,43.01,2024-01-01T00:10:00",
	)
	sel := Selection{X: ColumnRef{0, "x"}, Y: ColumnRef{1, "y"}, Time: ColumnRef{2, "t"}}

	ds, err := Load(tbl, sel, identity{})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, track.DefaultID, ds.Tracks[0].ID)

	path := track.Interpolate(ds.Tracks[0])
	require.Len(t, path, 5)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range path {
		assert.True(t, p.Time.Equal(start.Add(time.Duration(i)*2*time.Minute)), "point %d at %v", i, p.Time)
	}
}

func TestLoadDropsNullRowsAndKeepsExtras(t *testing.T) {
	tbl := mustTable(t,
		"id,x,y,t,depth",
		"a,1,1,2024-01-01 00:00:00,3",
		"a,NA,1,2024-01-01 01:00:00,3",
		"b,2,2,,4",
		",3,3,2024-01-01 02:00:00,5",
		"b,4,4,2024-01-01 03:00:00,6",
	)
	sel := Selection{X: ColumnRef{1, "x"}, Y: ColumnRef{2, "y"}, Time: ColumnRef{3, "t"}, ID: &ColumnRef{0, "id"}}

	ds, err := Load(tbl, sel, identity{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.IDs())
	assert.Equal(t, 2, ds.SampleCount())
	b, ok := ds.Track("b")
	require.True(t, ok)
	assert.Equal(t, "6", b.Samples[0].Extra["depth"])
	_, hasX := b.Samples[0].Extra["x"]
	assert.False(t, hasX)
}

func TestLoadErrors(t *testing.T) {
	sel := Selection{X: ColumnRef{0, "x"}, Y: ColumnRef{1, "y"}, Time: ColumnRef{2, "t"}}

	tests := []struct {
		name   string
		lines  []string
		column string
	}{
		{"bad timestamp", []string{"x,y,t", "1,2,2024-01-01", "1,2,yesterday-ish"}, "t"},
		{"bad number", []string{"x,y,t", "east,2,2024-01-01"}, "x"},
		{"all rows null", []string{"x,y,t", "NA,2,2024-01-01", "1,,2024-01-01"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(mustTable(t, tt.lines...), sel, identity{})
			var dv *DataValidationError
			require.True(t, errors.As(err, &dv), "got %v", err)
			assert.Equal(t, tt.column, dv.Column)
		})
	}
}

func TestLoadRejectsStaleSelection(t *testing.T) {
	tbl := mustTable(t, "a,b,c", "1,2,2024-01-01")
	sel := Selection{X: ColumnRef{0, "x"}, Y: ColumnRef{1, "b"}, Time: ColumnRef{2, "c"}}
	_, err := Load(tbl, sel, identity{})
	assert.Error(t, err)
}

func TestLoadInteractive(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.DroneCSV...)

	p := prompt.NewScripted(path, "longitude", "latitude", "5", "1", "")
	ds, err := LoadInteractive(p, "EPSG:4326", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ds.IDs())
	assert.Equal(t, 5, ds.SampleCount())
}

func TestLoadInteractiveCancellation(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.DroneCSV...)

	for name, answers := range map[string][]string{
		"file":       {prompt.Cancel},
		"columns":    {path, "2", prompt.Cancel},
		"projection": {path, "2", "3", "5", "", prompt.Cancel},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadInteractive(prompt.NewScripted(answers...), "EPSG:4326", nil)
			assert.ErrorIs(t, err, ErrCancelled)
		})
	}
}

func TestLoadInteractiveBadCRS(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.DroneCSV...)
	_, err := LoadInteractive(prompt.NewScripted(path, "2", "3", "5", "", "EPSG:99999"), "EPSG:4326", nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCancelled)
}

func TestLoadFixed(t *testing.T) {
	ds, err := LoadFixed(testutil.WriteCSV(t, testutil.DroneCSV...))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	one, ok := ds.Track("1")
	require.True(t, ok)
	assert.Equal(t, "12", one.Samples[1].Extra[FieldDepth])

	ds, err = LoadFixed(testutil.WriteCSV(t,
		"longitude,latitude,timestamp",
		"1,1,2024-01-01T00:00:00",
	))
	require.NoError(t, err)
	assert.Equal(t, []string{track.DefaultID}, ds.IDs())

	_, err = LoadFixed(testutil.WriteCSV(t, "lon,lat,timestamp", "1,1,2024-01-01"))
	var dv *DataValidationError
	require.True(t, errors.As(err, &dv))
	assert.Contains(t, dv.Error(), "latitude, longitude")
}

func TestValidateFields(t *testing.T) {
	assert.NoError(t, ValidateFields(testutil.WriteCSV(t, testutil.DroneCSV...), RequiredFields))

	err := ValidateFields(testutil.WriteCSV(t, "timestamp,longitude,latitude", "2024-01-01,1,1"), RequiredFields)
	require.Error(t, err)
	assert.Equal(t, "missing columns: depth, drone_id", err.Error())

	assert.Error(t, ValidateFields("/does/not/exist.csv", RequiredFields))
}

func TestPreview(t *testing.T) {
	tbl := mustTable(t, testutil.DroneCSV...)
	out := tbl.Preview(2)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "drone_id"))
	assert.Equal(t, "... 3 more rows", lines[3])
}

func TestDataValidationErrorMessage(t *testing.T) {
	err := &DataValidationError{Row: 3, Column: "t", Reason: "unparsable timestamp", Err: errors.New("bad")}
	assert.Equal(t, `line 3, column "t": unparsable timestamp: bad`, err.Error())
	assert.Equal(t, "bad", errors.Unwrap(err).Error())
}
