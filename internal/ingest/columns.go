package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/trackview/internal/prompt"
)

// ColumnRef names one header column by position and name.
type ColumnRef struct {
	Index int
	Name  string
}

func (c ColumnRef) String() string { return fmt.Sprintf("%d. %s", c.Index+1, c.Name) }

// Selection maps the semantic roles onto table columns. ID is nil when the
// file has no track id column.
type Selection struct {
	X    ColumnRef
	Y    ColumnRef
	Time ColumnRef
	ID   *ColumnRef
}

// Validate checks every reference against header.
func (s Selection) Validate(header []string) error {
	refs := []ColumnRef{s.X, s.Y, s.Time}
	if s.ID != nil {
		refs = append(refs, *s.ID)
	}
	for _, r := range refs {
		if r.Index < 0 || r.Index >= len(header) || header[r.Index] != r.Name {
			return &DataValidationError{Column: r.Name, Reason: "column not present in header"}
		}
	}
	return nil
}

// ColumnByName builds a reference to the named column.
func ColumnByName(header []string, name string) (ColumnRef, bool) {
	for i, h := range header {
		if h == name {
			return ColumnRef{Index: i, Name: h}, true
		}
	}
	return ColumnRef{}, false
}

// ParseColumnChoice resolves a prompt answer: an exact header name or a
// 1-based column number. A matching header name wins over a position.
func ParseColumnChoice(answer string, header []string) (ColumnRef, error) {
	a := strings.TrimSpace(answer)
	if a == "" {
		return ColumnRef{}, &InvalidInputError{Input: answer, Reason: "a column is required"}
	}
	if ref, ok := ColumnByName(header, a); ok {
		return ref, nil
	}
	if n, err := strconv.Atoi(a); err == nil {
		if n < 1 || n > len(header) {
			return ColumnRef{}, &InvalidInputError{
				Input:  answer,
				Reason: fmt.Sprintf("column number must be between 1 and %d", len(header)),
			}
		}
		return ColumnRef{Index: n - 1, Name: header[n-1]}, nil
	}
	return ColumnRef{}, &InvalidInputError{Input: answer, Reason: "not a column number or name"}
}

// SelectColumns asks for the X, Y, time and optional ID columns.
func SelectColumns(p prompt.Prompter, header []string) (Selection, error) {
	listing := prompt.NumberedColumns(header)
	ask := func(role string, optional bool) (string, error) {
		text := fmt.Sprintf("Enter number for %s column:\n%s", role, listing)
		if optional {
			text = fmt.Sprintf("Enter number for %s column (optional, leave blank for default):\n%s", role, listing)
		}
		return p.SelectColumn("Manual Column Selection", text, header, optional)
	}

	var sel Selection
	roles := []struct {
		name string
		dst  *ColumnRef
	}{
		{"X (Longitude)", &sel.X},
		{"Y (Latitude)", &sel.Y},
		{"Time", &sel.Time},
	}
	for _, r := range roles {
		answer, err := ask(r.name, false)
		if err != nil {
			return Selection{}, err
		}
		ref, err := ParseColumnChoice(answer, header)
		if err != nil {
			return Selection{}, err
		}
		*r.dst = ref
	}

	answer, err := ask("ID", true)
	if err != nil {
		return Selection{}, err
	}
	if strings.TrimSpace(answer) != "" {
		ref, err := ParseColumnChoice(answer, header)
		if err != nil {
			return Selection{}, err
		}
		sel.ID = &ref
	}
	return sel, nil
}
