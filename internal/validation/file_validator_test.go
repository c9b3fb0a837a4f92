package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
)

func TestFileValidator_ValidateWorkbookFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o644))
		return p
	}

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
		errText string
	}{
		{
			name: "real workbook",
			path: func(t *testing.T) string { return testutil.WriteSampleWorkbook(t) },
		},
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(dir, "nope.xlsx") },
			wantErr: os.ErrNotExist,
		},
		{
			name:    "directory",
			path:    func(t *testing.T) string { return dir },
			errText: "is a directory",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return write("empty.xlsx", nil) },
			wantErr: ErrEmptyFile,
		},
		{
			name:    "lock file",
			path:    func(t *testing.T) string { return write("~$ventas.xlsx", []byte("PK\x03\x04")) },
			wantErr: ErrTempFile,
		},
		{
			name:    "legacy xls",
			path:    func(t *testing.T) string { return write("old.xls", []byte{0xD0, 0xCF, 0x11, 0xE0}) },
			wantErr: ErrNotWorkbook,
		},
		{
			name:    "csv renamed to xlsx",
			path:    func(t *testing.T) string { return write("fake.xlsx", []byte("Mes,Meta\nEnero,10\n")) },
			wantErr: ErrNotWorkbook,
		},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbookFile(tt.path(t))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "exports", "2025")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(dir, ".write_test"))

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	assert.Error(t, v.ValidateOutputDirectory(filepath.Join(blocker, "sub")))
	testutil.AssertLogAttr(t, handler, "component", "file_validator")
}
