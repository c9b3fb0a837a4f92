package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"salespulse/pkg/contracts/domain"
)

// Exporter renders dashboard tables as downloadable files.
type Exporter struct {
	logger *slog.Logger
}

// New creates an exporter.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger.With(slog.String("component", "exporter"))}
}

// Sales writes records to w in format f.
func (e *Exporter) Sales(w io.Writer, f Format, records []domain.SalesRecord) error {
	e.logger.Debug("exporting sales",
		slog.String("format", string(f)),
		slog.Int("records", len(records)))

	switch f {
	case FormatCSV:
		return Encode(w, WriteOptions{Headers: SalesHeaders, Records: SalesRows(records), BOMPrefix: true})
	case FormatXLSX:
		return WriteSalesXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// Clients writes long-form client sales to w in format f.
func (e *Exporter) Clients(w io.Writer, f Format, rows []domain.ClientMonthlySale) error {
	e.logger.Debug("exporting client sales",
		slog.String("format", string(f)),
		slog.Int("rows", len(rows)))

	switch f {
	case FormatCSV:
		return Encode(w, WriteOptions{Headers: ClientHeaders, Records: ClientRows(rows), BOMPrefix: true})
	case FormatXLSX:
		return WriteClientXLSX(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}
