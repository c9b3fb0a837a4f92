package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestDiscovery_FindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "ventas_enero.xlsx", 3*time.Hour)
	newest := touch(t, dir, "ventas_marzo.XLSX", time.Minute)
	touch(t, dir, "macros.xlsm", 2*time.Hour)
	touch(t, dir, "~$ventas_marzo.xlsx", 0)
	touch(t, dir, ".hidden.xlsx", 0)
	touch(t, dir, "notes.txt", 0)
	touch(t, dir, "legacy.xls", 0)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0o755))

	files, err := NewDiscovery("").FindWorkbooks(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "ventas_marzo.XLSX", files[0].Name)
	assert.Equal(t, "macros.xlsm", files[1].Name)
	assert.Equal(t, "ventas_enero.xlsx", files[2].Name)

	latest, err := NewDiscovery(dir).LatestWorkbook(".")
	require.NoError(t, err)
	assert.Equal(t, newest, latest.Path)
	assert.EqualValues(t, 1, latest.Size)
}

func TestDiscovery_NoWorkbook(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "~$lock.xlsx", 0)

	_, err := NewDiscovery(dir).LatestWorkbook("")
	assert.ErrorIs(t, err, ErrNoWorkbook)

	_, err = NewDiscovery(dir).FindWorkbooks("missing")
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
