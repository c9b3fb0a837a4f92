package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by the sample workbook.
const (
	SalesSheet   = "data1"
	BacklogSheet = "meta_fac"
	ClientSheet  = "fac_cli"
)

// ClientHeader is the header row of a per-client sheet with the default
// "vta_" month columns.
func ClientHeader() []interface{} {
	return []interface{}{
		"razon_social", "Año",
		"vta_enero", "vta_febrero", "vta_marzo", "vta_abril", "vta_mayo", "vta_junio",
		"vta_julio", "vta_agosto", "vta_septiembre", "vta_octubre", "vta_noviembre", "vta_diciembre",
	}
}

// SalesRows is a monthly sales sheet for 2025 Q1-Q2 and 2024 Q4.
func SalesRows() [][]interface{} {
	return [][]interface{}{
		{"Mes", "Trimestre", "Meta", "Facturado", "Año"},
		{"Enero", "Q1", 1000, 800, 2025},
		{"Febrero", "Q1", 500, 600, 2025},
		{"Marzo", "Q1", 700, 700, 2025},
		{"Abril", "Q2", 900, 300, 2025},
		{"Octubre", "Q4", 300, 450, 2024},
	}
}

// BacklogRows is a monthly sales sheet carrying billed-plus-backlog data.
func BacklogRows() [][]interface{} {
	return [][]interface{}{
		{"Mes", "Trimestre", "Meta", "Facturado", "Fac_backlog", "Año"},
		{"Enero", "Q1", 1000, 700, 200, 2025},
		{"Febrero", "Q1", 1000, 900, 0, 2025},
	}
}

// ClientRows is a per-client sheet with three clients over two years.
func ClientRows() [][]interface{} {
	return [][]interface{}{
		ClientHeader(),
		{"LA ARENA S.A.", 2025, 250, 100, 50},
		{"MINERA NORTE S.A.C.", 2025, 10, 20, 30, 40},
		{"LA ARENA S.A.", 2024, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 70},
		{"OTRO CLIENTE", 2025, 999},
	}
}

// SampleSheets returns every sheet of the sample workbook.
func SampleSheets() map[string][][]interface{} {
	return map[string][][]interface{}{
		SalesSheet:   SalesRows(),
		BacklogSheet: BacklogRows(),
		ClientSheet:  ClientRows(),
	}
}

// WriteWorkbook saves an .xlsx file with the given sheets under dir and
// returns its path. Sheets are created in name order after the default
// sheet.
func WriteWorkbook(t *testing.T, dir, name string, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	names := make([]string, 0, len(sheets))
	for n := range sheets {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, sheet := range names {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("failed to create sheet %s: %v", sheet, err)
		}
		for i, row := range sheets[sheet] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("invalid cell: %v", err)
			}
			r := row
			if err := f.SetSheetRow(sheet, cell, &r); err != nil {
				t.Fatalf("failed to write row %d of %s: %v", i+1, sheet, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// WriteSampleWorkbook saves the sample workbook in a temp dir.
func WriteSampleWorkbook(t *testing.T) string {
	t.Helper()
	return WriteWorkbook(t, t.TempDir(), "ventas.xlsx", SampleSheets())
}
