// Package exporter renders dashboard tables as CSV or XLSX downloads.
//
// CSV output is UTF-8 with a BOM so Excel shows accented month and client
// names correctly. XLSX output is built with excelize: a data sheet with a
// frozen, styled header and "#,##0.00" amounts, plus a KPI summary sheet
// for sales exports.
//
// Example usage:
//
//	exp := exporter.New(logger)
//	err := exp.Sales(w, exporter.FormatXLSX, table.Records)
//
//	// or to a file under the exports directory
//	path, err := exporter.NewCSVWriter(paths).WriteSimpleCSV("ventas.csv",
//		exporter.SalesHeaders, exporter.SalesRows(table.Records))
package exporter
