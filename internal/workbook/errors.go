package workbook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaMismatch is matched by every *SchemaError.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrSheetNotFound is returned when the workbook has no sheet with the
	// requested name.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrInvalidCell is matched by every *CellError.
	ErrInvalidCell = errors.New("invalid cell value")
	// ErrUnsupportedLocation is returned by OpenSource for locations it
	// cannot read.
	ErrUnsupportedLocation = errors.New("unsupported workbook location")
)

// SchemaError lists the expected columns that a sheet lacks.
type SchemaError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q: missing columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrSchemaMismatch) work.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// CellError reports a cell that could not be read as the type its column
// requires. Row is 1-based, as shown by spreadsheet programs.
type CellError struct {
	Sheet  string
	Row    int
	Column string
	Value  string
	Cause  error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q row %d column %q: invalid value %q", e.Sheet, e.Row, e.Column, e.Value)
}

// Is makes errors.Is(err, ErrInvalidCell) work.
func (e *CellError) Is(target error) bool {
	return target == ErrInvalidCell
}

func (e *CellError) Unwrap() error {
	return e.Cause
}
