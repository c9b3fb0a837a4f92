package exporter

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/sales"
	"salespulse/pkg/contracts/domain"
)

// Sheet names of exported workbooks.
const (
	SalesSheetName   = "Ventas"
	SummarySheetName = "Resumen"
	ClientSheetName  = "Clientes"
)

// numFmtAmount is the built-in "#,##0.00" format.
const numFmtAmount = 4

type xlsxBook struct {
	f      *excelize.File
	header int
	amount int
}

func newXLSXBook(first string) (*xlsxBook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", first); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	return &xlsxBook{f: f, header: header, amount: amount}, nil
}

// table writes headers and rows starting at A1, styles numeric columns from
// firstAmountCol (1-based) on, and freezes the header row.
func (b *xlsxBook) table(sheet string, headers []string, rows [][]interface{}, firstAmountCol int) error {
	if idx, _ := b.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := b.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	hdr := make([]interface{}, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := b.f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := b.f.SetCellStyle(sheet, "A1", lastCol+"1", b.header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		if err := b.f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if len(rows) > 0 && firstAmountCol > 0 {
		from, _ := excelize.CoordinatesToCellName(firstAmountCol, 2)
		to, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err := b.f.SetCellStyle(sheet, from, to, b.amount); err != nil {
			return err
		}
	}

	if err := b.f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}
	return b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (b *xlsxBook) writeTo(w io.Writer) error {
	defer b.f.Close()
	if err := b.f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func num(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// WriteSalesXLSX writes the sales records plus a KPI summary sheet.
func WriteSalesXLSX(w io.Writer, records []domain.SalesRecord) error {
	b, err := newXLSXBook(SalesSheetName)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Month, r.Quarter, r.Year,
			num(r.Target), num(r.Billed), num(r.Backlog), num(r.TotalBilled), num(r.Gap),
			num(sales.AttainmentPct(r.TotalBilled, r.Target)),
		})
	}
	if err := b.table(SalesSheetName, SalesHeaders, rows, 4); err != nil {
		b.f.Close()
		return err
	}

	k := sales.AggregateKPIs(records)
	summary := [][]interface{}{
		{"Meta", num(k.TotalTarget)},
		{"Total facturado", num(k.TotalBilled)},
		{"GAP", num(k.TotalGap)},
		{"Avance %", num(k.AttainmentPct)},
		{"Periodos", k.Periods},
	}
	if err := b.table(SummarySheetName, []string{"Indicador", "Valor"}, summary, 2); err != nil {
		b.f.Close()
		return err
	}

	return b.writeTo(w)
}

// WriteClientXLSX writes long-form client sales.
func WriteClientXLSX(w io.Writer, rows []domain.ClientMonthlySale) error {
	b, err := newXLSXBook(ClientSheetName)
	if err != nil {
		return err
	}

	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{r.Client, r.Year, r.Month, r.Label, num(r.Amount)})
	}
	if err := b.table(ClientSheetName, ClientHeaders, data, 5); err != nil {
		b.f.Close()
		return err
	}
	return b.writeTo(w)
}
