// Package workbook loads the dashboard's source tables from a spreadsheet.
//
// A Source yields raw cell text from either a local .xlsx file (excelize)
// or a Google Sheets spreadsheet (Sheets v4 API). ParseSales and
// ParseClientSales validate the header against the expected columns and
// type every cell; a missing column is reported as a *SchemaError listing
// every absent name, and an unreadable amount as a *CellError with its
// 1-based row.
//
// Loader combines a Source with a Cache so each sheet is read once per
// process. Concurrent first requests for the same sheet share a single
// read, and Invalidate forces the next request to go back to the source.
//
//	src, err := workbook.OpenSource(ctx, "ventas.xlsx", workbook.SourceOptions{})
//	loader := workbook.NewLoader(src, nil, nil, logger)
//	table, err := loader.LoadSales(ctx, "data1")
package workbook
