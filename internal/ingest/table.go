// Package ingest turns CSV files into grouped, time-sorted track datasets.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Table is a CSV file held in memory. Rows are padded or truncated to the
// header width.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
}

// nullTokens are cell values treated as missing.
var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
}

// IsNull reports whether a cell counts as missing.
func IsNull(cell string) bool {
	_, ok := nullTokens[strings.TrimSpace(cell)]
	return ok
}

// ReadTable reads a CSV file with a header row.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataValidationError{Reason: "cannot open CSV", Err: err}
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

// ParseTable reads CSV content with a header row from r.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataValidationError{Reason: "CSV file is empty"}
	}
	if err != nil {
		return nil, &DataValidationError{Row: 1, Reason: "invalid CSV header", Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Header: header}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataValidationError{Row: line, Reason: "invalid CSV", Err: err}
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Preview renders the header and the first n rows as aligned text.
func (t *Table) Preview(n int) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Header, "\t"))
	for i, row := range t.Rows {
		if i >= n {
			break
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	if len(t.Rows) > n {
		fmt.Fprintf(&b, "... %d more rows\n", len(t.Rows)-n)
	}
	return b.String()
}
