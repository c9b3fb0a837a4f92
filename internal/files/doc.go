// Package files locates workbooks on disk.
//
// When no workbook location is configured the dashboard serves the newest
// workbook in the data directory:
//
//	wb, err := files.NewDiscovery(paths.DataDir).LatestWorkbook(".")
package files
