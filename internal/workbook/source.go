package workbook

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// SheetsScheme prefixes locations that name a Google Sheets spreadsheet,
// for example "gsheets://1AbC...".
const SheetsScheme = "gsheets://"

// Source yields the raw cell text of a workbook, one sheet at a time.
// Rows are returned as read; header detection and typing happen in the
// parse functions.
type Source interface {
	// ID identifies the workbook; it is used as the cache key.
	ID() string
	// Sheets lists the sheet names in workbook order.
	Sheets(ctx context.Context) ([]string, error)
	// Rows returns every row of the named sheet. A missing sheet yields
	// an error matching ErrSheetNotFound.
	Rows(ctx context.Context, sheet string) ([][]string, error)
}

// SourceOptions configure how OpenSource reaches remote workbooks.
type SourceOptions struct {
	// CredentialsFile is a Google service account JSON key.
	CredentialsFile string
	// APIKey is used for publicly shared spreadsheets when no
	// credentials file is configured.
	APIKey string
	// Endpoint overrides the Sheets API base URL.
	Endpoint string
}

// OpenSource picks the Source implementation for a location: a
// "gsheets://<spreadsheet id>" URL or a path to an .xlsx file.
func OpenSource(ctx context.Context, location string, opts SourceOptions) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnsupportedLocation)
	}

	if strings.HasPrefix(strings.ToLower(location), SheetsScheme) {
		id := strings.Trim(location[len(SheetsScheme):], "/")
		return NewSheetsSource(ctx, id, opts)
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return NewExcelSource(location)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, location)
	}
}

func hasSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}
