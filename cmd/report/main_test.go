package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/exporter"
	"salespulse/internal/shared/testutil"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-quarter", "Q1, Q2", "-year", "2025", "-out", "x.csv"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "sales", o.table)
	assert.Equal(t, []string{"Q1", "Q2"}, split(o.quarters))
	assert.Equal(t, "2025", o.year)

	_, err = parseFlags([]string{"-table", "products"}, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	assert.Nil(t, split(""))
	assert.Nil(t, split(" , "))
	assert.Equal(t, []string{"Enero", "Marzo"}, split("Enero,,Marzo "))
}

func TestRun_SalesReport(t *testing.T) {
	wb := testutil.WriteSampleWorkbook(t)
	out := filepath.Join(t.TempDir(), "ventas.csv")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-workbook", wb, "-quarter", "q1", "-year", "2025", "-out", out}, &stdout)
	require.NoError(t, err)

	text := stdout.String()
	assert.Contains(t, text, "95.45 %")
	assert.Contains(t, text, "Periodos")
	assert.Contains(t, text, "Enero")
	assert.NotContains(t, text, "Abril")
	assert.Contains(t, text, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeffMes,Trimestre"))
	assert.Equal(t, 4, strings.Count(strings.TrimSpace(string(data)), "\n")+1)
}

func TestRun_ClientsXLSX(t *testing.T) {
	wb := testutil.WriteSampleWorkbook(t)
	out := filepath.Join(t.TempDir(), "clientes.xlsx")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-workbook", wb, "-table", "clients", "-year", "2025", "-out", out}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "OTRO CLIENTE")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exporter.ClientSheetName)
	require.NoError(t, err)
	assert.Equal(t, exporter.ClientHeaders, rows[0])
	assert.Greater(t, len(rows), 1)
}

func TestRun_Errors(t *testing.T) {
	wb := testutil.WriteSampleWorkbook(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad quarter", []string{"-workbook", wb, "-quarter", "Q9"}},
		{"bad variant", []string{"-workbook", wb, "-variant", "forecast"}},
		{"bad format", []string{"-workbook", wb, "-out", filepath.Join(t.TempDir(), "x.pdf")}},
		{"missing workbook", []string{"-workbook", filepath.Join(t.TempDir(), "none.xlsx")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.args, io.Discard))
		})
	}
}
