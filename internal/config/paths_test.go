package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
)

func TestExecutableDir(t *testing.T) {
	dir, err := ExecutableDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = "/opt/salespulse"
	cfg.Paths.ExportsDir = "/var/exports"
	require.NoError(t, cfg.resolvePaths())

	assert.Equal(t, "/opt/salespulse/data", cfg.Paths.DataDir)
	assert.Equal(t, "/opt/salespulse/logs", cfg.Paths.LogsDir)
	assert.Equal(t, "/var/exports", cfg.Paths.ExportsDir)
	assert.Equal(t, "/opt/salespulse/logs/app.log", cfg.Logging.FilePath)
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Paths.ExecutableDir = root
	require.NoError(t, cfg.resolvePaths())

	paths := cfg.GetPaths()
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.LogsDir, paths.ExportsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(root, "data", "exports", "ventas.csv"), paths.ExportPath("../ventas.csv"))
	assert.True(t, FileExists(paths.DataDir))
	assert.False(t, FileExists(filepath.Join(root, "missing")))
}

func TestLogPathResolution(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	paths := &Paths{DataDir: "/d", LogsDir: "/l"}

	paths.LogPathResolution(logger)
	paths.LogPathResolution(nil)

	assert.True(t, handler.ContainsMessage("Path resolution summary"))
	assert.Equal(t, 1, handler.Count())
}
