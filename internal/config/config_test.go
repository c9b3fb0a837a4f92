package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SALESPULSE_PATHS_EXECUTABLE_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, "data1", cfg.Workbook.SalesSheet)
	assert.Equal(t, "meta_fac", cfg.Workbook.BacklogSheet)
	assert.Equal(t, "fac_cli", cfg.Workbook.ClientSheet)
	assert.Equal(t, VariantTargets, cfg.Dashboard.Variant)
	assert.Equal(t, "vta_", cfg.Dashboard.MonthPrefix)
	assert.Empty(t, cfg.Dashboard.KeyAccounts)
	assert.Equal(t, "data1", cfg.SalesSheet())

	assert.True(t, filepath.IsAbs(cfg.Paths.DataDir))
	assert.Equal(t, filepath.Join(cfg.Paths.ExecutableDir, "data"), cfg.Paths.DataDir)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout: 5s
workbook:
  location: /srv/ventas.xlsx
  sales_sheet: ventas
dashboard:
  variant: backlog
  key_accounts:
    - LA ARENA S.A.
    - MINERA NORTE S.A.C.
logging:
  level: debug
`)
	t.Setenv("SALESPULSE_PATHS_EXECUTABLE_DIR", t.TempDir())
	t.Setenv("SALESPULSE_SERVER_PORT", "7070")
	t.Setenv("SALESPULSE_WORKBOOK_BACKLOG_SHEET", "meta_fac_2025")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port, "env wins over file")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout, "file wins over defaults")
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "defaults kept")
	assert.Equal(t, "/srv/ventas.xlsx", cfg.Workbook.Location)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"LA ARENA S.A.", "MINERA NORTE S.A.C."}, cfg.Dashboard.KeyAccounts)
	assert.Equal(t, "meta_fac_2025", cfg.SalesSheet())
}

func TestLoad_ConfigFromEnvVariable(t *testing.T) {
	path := writeConfigFile(t, "dashboard:\n  title: Ventas Norte\n")
	t.Setenv("SALESPULSE_CONFIG", path)
	t.Setenv("SALESPULSE_PATHS_EXECUTABLE_DIR", t.TempDir())
	t.Setenv("SALESPULSE_DASHBOARD_KEY_ACCOUNTS", "A, ,B")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Ventas Norte", cfg.Dashboard.Title)
	assert.Equal(t, []string{"A", "B"}, cfg.Dashboard.KeyAccounts)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("SALESPULSE_PATHS_EXECUTABLE_DIR", t.TempDir())

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "server: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("SALESPULSE_SERVER_PORT", "eighty")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read timeout"},
		{"cors without origins", func(c *Config) { c.Security.AllowedOrigins = nil }, "allowed origin"},
		{"cors disabled without origins", func(c *Config) {
			c.Security.EnableCORS = false
			c.Security.AllowedOrigins = nil
		}, ""},
		{"bad rate limit", func(c *Config) { c.Security.RateLimit.RPS = 0 }, "rate limit"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }, "log output"},
		{"unknown variant", func(c *Config) { c.Dashboard.Variant = "forecast" }, "variant"},
		{"backlog variant without sheet", func(c *Config) {
			c.Dashboard.Variant = VariantBacklog
			c.Workbook.BacklogSheet = ""
		}, "no sales sheet"},
		{"no client sheet", func(c *Config) { c.Workbook.ClientSheet = "" }, "client sheet"},
		{"no month prefix", func(c *Config) { c.Dashboard.MonthPrefix = "" }, "month prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ForcesJSONFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", s.Addr())
	assert.Equal(t, ":8080", Default().Server.Addr())
}
