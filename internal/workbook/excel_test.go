package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
)

func salesSheet() [][]interface{} {
	return [][]interface{}{
		{"Mes", "Trimestre", "Meta", "Facturado", "Año"},
		{"Enero", "Q1", 1000, 800, 2025},
		{"Febrero", "Q1", 500, 600, 2025},
		{"Marzo", "Q1", 700, 700.5, 2025},
	}
}

func TestExcelSource(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "ventas.xlsx", map[string][][]interface{}{
		"data1": salesSheet(),
	})

	src, err := NewExcelSource(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.ID())

	ctx := context.Background()
	sheets, err := src.Sheets(ctx)
	require.NoError(t, err)
	assert.Contains(t, sheets, "data1")

	rows, err := src.Rows(ctx, "data1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Mes", "Trimestre", "Meta", "Facturado", "Año"}, rows[0])
	assert.Equal(t, "2025", rows[1][4])
	assert.Equal(t, "700.5", rows[3][3])

	_, err = src.Rows(ctx, "missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestExcelSource_ParsesIntoTable(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "ventas.xlsx", map[string][][]interface{}{
		"data1": salesSheet(),
	})
	src, err := NewExcelSource(path)
	require.NoError(t, err)

	rows, err := src.Rows(context.Background(), "data1")
	require.NoError(t, err)
	table, err := ParseSales(src.ID(), "data1", rows)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "-0.5", table.Records[2].Gap.String())
}

func TestNewExcelSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewExcelSource(filepath.Join(dir, "nope.xlsx"))
	assert.Error(t, err)

	_, err = NewExcelSource(dir)
	assert.ErrorIs(t, err, ErrUnsupportedLocation)
}

func TestExcelSource_CancelledContext(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "ventas.xlsx", map[string][][]interface{}{
		"data1": salesSheet(),
	})
	src, err := NewExcelSource(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Rows(ctx, "data1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSource(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "ventas.xlsx", map[string][][]interface{}{
		"data1": salesSheet(),
	})

	src, err := OpenSource(context.Background(), path, SourceOptions{})
	require.NoError(t, err)
	assert.IsType(t, &ExcelSource{}, src)

	csvPath := filepath.Join(dir, "ventas.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Mes\n"), 0o644))
	_, err = OpenSource(context.Background(), csvPath, SourceOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedLocation)

	_, err = OpenSource(context.Background(), "  ", SourceOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedLocation)

	_, err = OpenSource(context.Background(), "gsheets://", SourceOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedLocation)
}
