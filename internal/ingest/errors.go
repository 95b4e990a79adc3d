package ingest

import (
	"fmt"

	"github.com/banshee-data/trackview/internal/prompt"
)

// ErrCancelled is returned when the user dismisses any prompt of the load flow.
var ErrCancelled = prompt.ErrCancelled

// DataValidationError reports input that cannot become a dataset: missing
// columns, unparsable cells, an unreadable CSV or no usable rows. Row is the
// 1-based line number in the file (the header is line 1), or 0 when the
// problem is not tied to a row.
type DataValidationError struct {
	Row    int
	Column string
	Reason string
	Err    error
}

func (e *DataValidationError) Error() string {
	msg := e.Reason
	switch {
	case e.Row > 0 && e.Column != "":
		msg = fmt.Sprintf("line %d, column %q: %s", e.Row, e.Column, e.Reason)
	case e.Row > 0:
		msg = fmt.Sprintf("line %d: %s", e.Row, e.Reason)
	case e.Column != "":
		msg = fmt.Sprintf("column %q: %s", e.Column, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataValidationError) Unwrap() error { return e.Err }

// InvalidInputError reports a column choice that is neither a valid 1-based
// index nor a header name.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for column selection %q: %s", e.Input, e.Reason)
}
