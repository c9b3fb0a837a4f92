package workbook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads a Google Sheets spreadsheet through the Sheets v4 API.
type SheetsSource struct {
	spreadsheetID string
	service       *sheets.Service
}

// NewSheetsSource builds a Sheets client for spreadsheetID. Credentials are
// taken from opts.CredentialsFile, then opts.APIKey; with neither the
// client falls back to Application Default Credentials.
func NewSheetsSource(ctx context.Context, spreadsheetID string, opts SourceOptions) (*SheetsSource, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: missing spreadsheet id", ErrUnsupportedLocation)
	}

	var clientOpts []option.ClientOption
	switch {
	case opts.CredentialsFile != "":
		credentialsJSON, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentialsJSON(credentialsJSON))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
		if opts.CredentialsFile == "" && opts.APIKey == "" {
			clientOpts = append(clientOpts, option.WithoutAuthentication())
		}
	}

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsSource{spreadsheetID: spreadsheetID, service: service}, nil
}

// ID returns the gsheets:// location of the spreadsheet.
func (s *SheetsSource) ID() string {
	return SheetsScheme + s.spreadsheetID
}

func (s *SheetsSource) Sheets(ctx context.Context) ([]string, error) {
	resp, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", s.spreadsheetID, err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			names = append(names, sh.Properties.Title)
		}
	}
	return names, nil
}

func (s *SheetsSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheet).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusBadRequest || gerr.Code == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %q in %s: %s", ErrSheetNotFound, sheet, s.ID(), gerr.Message)
		}
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = cellText(v)
		}
		rows[i] = row
	}
	return rows, nil
}

// cellText renders an unformatted Sheets value the way excelize renders a
// raw cell value.
func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(x)
	}
}
