package workbook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSheetsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-123/values/data1"):
			assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"range":          "data1!A1:E3",
				"majorDimension": "ROWS",
				"values": [][]interface{}{
					{"Mes", "Trimestre", "Meta", "Facturado", "Año"},
					{"Enero", "Q1", 1000, 800, 2025},
					{"Febrero", "Q1", 1500000, 600.25, 2025},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-123"):
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"sheets": []map[string]interface{}{
					{"properties": map[string]interface{}{"title": "data1"}},
					{"properties": map[string]interface{}{"title": "fac_cli"}},
				},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Unable to parse range","status":"INVALID_ARGUMENT"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSheetsSource(t *testing.T) {
	srv := newSheetsServer(t)
	ctx := context.Background()

	src, err := OpenSource(ctx, "gsheets://sheet-123", SourceOptions{Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "gsheets://sheet-123", src.ID())

	sheets, err := src.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"data1", "fac_cli"}, sheets)

	rows, err := src.Rows(ctx, "data1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025", rows[1][4])
	assert.Equal(t, "1500000", rows[2][2])
	assert.Equal(t, "600.25", rows[2][3])

	table, err := ParseSales(src.ID(), "data1", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestSheetsSource_MissingSheet(t *testing.T) {
	srv := newSheetsServer(t)
	src, err := NewSheetsSource(context.Background(), "sheet-123", SourceOptions{Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	_, err = src.Rows(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", cellText(nil))
	assert.Equal(t, "abc", cellText("abc"))
	assert.Equal(t, "2025", cellText(2025.0))
	assert.Equal(t, "0.1", cellText(0.1))
	assert.Equal(t, "TRUE", cellText(true))
}
