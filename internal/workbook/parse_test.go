package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", "0", false},
		{"-", "0", false},
		{"1234.5", "1234.5", false},
		{"1,234.50", "1234.5", false},
		{"S/ 2,000", "2000", false},
		{"S/. 15", "15", false},
		{"$ 99.90", "99.9", false},
		{"(250)", "-250", false},
		{"-12.5", "-12.5", false},
		{"1.5E+03", "1500", false},
		{"n/a", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, "2025", parseYear("2025"))
	assert.Equal(t, "2025", parseYear(" 2025.0 "))
	assert.Equal(t, "FY25", parseYear("FY25"))
	assert.Equal(t, "", parseYear(""))
}

func TestParseSales(t *testing.T) {
	rows := [][]string{
		{"Reporte de ventas"},
		{},
		{"Mes", "Trimestre", "Meta", "Facturado", "Año"},
		{"enero", "Q1", "1000", "800", "2025.0"},
		{"Febrero", "", "500", "600", "2025"},
		{"", "", "", "", ""},
		{"Octubre", "t4", "300", "450", "2024"},
	}

	table, err := ParseSales("book.xlsx", "data1", rows)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	assert.False(t, table.HasBacklog)
	assert.Equal(t, "data1", table.Sheet)

	first := table.Records[0]
	assert.Equal(t, "Enero", first.Month)
	assert.Equal(t, "Q1", first.Quarter)
	assert.Equal(t, "2025", first.Year)
	assert.Equal(t, "800", first.TotalBilled.String())
	assert.Equal(t, "200", first.Gap.String())

	assert.Equal(t, "Q1", table.Records[1].Quarter, "quarter derived from month")
	assert.Equal(t, "Q4", table.Records[2].Quarter)
	assert.Equal(t, "-150", table.Records[2].Gap.String())
}

func TestParseSales_WithBacklog(t *testing.T) {
	rows := [][]string{
		{"Mes", "Meta", "Facturado", "Fac_backlog", "Anio"},
		{"Marzo", "1000", "700", "200", "2025"},
		{"Abril", "1000", "700", "", "2025"},
	}
	table, err := ParseSales("book.xlsx", "meta_fac", rows)
	require.NoError(t, err)
	assert.True(t, table.HasBacklog)
	assert.Equal(t, "900", table.Records[0].TotalBilled.String())
	assert.Equal(t, "100", table.Records[0].Gap.String())
	assert.Equal(t, "700", table.Records[1].TotalBilled.String())
}

func TestParseSales_MissingColumns(t *testing.T) {
	rows := [][]string{
		{"Mes", "Meta"},
		{"Enero", "10"},
	}
	_, err := ParseSales("book.xlsx", "data1", rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{ColBilled, ColYear}, se.Missing)
	assert.Contains(t, err.Error(), "Facturado")

	_, err = ParseSales("book.xlsx", "data1", nil)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestParseSales_InvalidCell(t *testing.T) {
	rows := [][]string{
		{"Mes", "Meta", "Facturado", "Año"},
		{"Enero", "1000", "800", "2025"},
		{"Febrero", "mil", "800", "2025"},
	}
	_, err := ParseSales("book.xlsx", "data1", rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCell)

	var ce *CellError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.Row)
	assert.Equal(t, ColTarget, ce.Column)
	assert.Equal(t, "mil", ce.Value)
}

func clientHeader() []string {
	return []string{
		"razon_social", "Año",
		"vta_enero", "vta_febrero", "vta_marzo", "vta_abril", "vta_mayo", "vta_junio",
		"vta_julio", "vta_agosto", "vta_septiembre", "vta_octubre", "vta_noviembre", "vta_diciembre",
	}
}

func TestParseClientSales(t *testing.T) {
	rows := [][]string{
		clientHeader(),
		{"LA ARENA S.A.", "2025", "250", "1,000"},
		{" MINERA NORTE ", "2024.0", "", "", "", "", "", "", "", "", "", "", "", "70"},
	}
	table, err := ParseClientSales("book.xlsx", "fac_cli", "", rows)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Len(t, table.MonthColumns, 12)

	arena := table.Records[0]
	assert.Equal(t, "LA ARENA S.A.", arena.Client)
	assert.Equal(t, "250", arena.Months["vta_enero"].String())
	assert.Equal(t, "1000", arena.Months["vta_febrero"].String())
	assert.True(t, arena.Months["vta_diciembre"].IsZero())

	minera := table.Records[1]
	assert.Equal(t, "MINERA NORTE", minera.Client)
	assert.Equal(t, "2024", minera.Year)
	assert.Equal(t, "70", minera.Months["vta_diciembre"].String())
}

func TestParseClientSales_MissingMonth(t *testing.T) {
	header := clientHeader()
	header[6] = "vta_may"
	_, err := ParseClientSales("book.xlsx", "fac_cli", "vta_", [][]string{header})
	require.Error(t, err)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"vta_mayo"}, se.Missing)
}

func TestParseClientSales_SetiembreAlias(t *testing.T) {
	header := clientHeader()
	header[10] = "vta_setiembre"
	table, err := ParseClientSales("book.xlsx", "fac_cli", "vta_", [][]string{header, {"X", "2025"}})
	require.NoError(t, err)
	assert.Contains(t, table.MonthColumns, "vta_setiembre")
}
