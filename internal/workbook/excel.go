package workbook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExcelSource reads a local .xlsx workbook. The file is opened on every
// call so a replaced workbook is picked up after the cache is invalidated.
type ExcelSource struct {
	path string
}

// NewExcelSource returns a source for the workbook at path. The file must
// exist; its contents are not read until Rows or Sheets is called.
func NewExcelSource(path string) (*ExcelSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workbook path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedLocation, abs)
	}
	return &ExcelSource{path: abs}, nil
}

// ID returns the absolute path of the workbook.
func (s *ExcelSource) ID() string {
	return s.path
}

// Path returns the absolute path of the workbook.
func (s *ExcelSource) Path() string {
	return s.path
}

func (s *ExcelSource) Sheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

func (s *ExcelSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	if !hasSheet(f.GetSheetList(), sheet) {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, filepath.Base(s.path))
	}

	// Raw values keep numbers free of the display format (thousand
	// separators, currency symbols) applied in the workbook.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
