// Package shared holds helpers used across the salespulse packages that do
// not belong to any one layer.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler for asserting on log output
//   - sample workbook fixtures written with excelize
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//		path := testutil.WriteSampleWorkbook(t)
//		logger, logs := testutil.NewTestLogger(t)
//		// ...
//	}
package shared
