package config

// Application constants
const (
	AppName     = "Sales Pulse"
	ServiceName = "salespulse"
	EnvPrefix   = "SALESPULSE"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultExportsDir = "data/exports"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Workbook layout
	DefaultSalesSheet   = "data1"
	DefaultBacklogSheet = "meta_fac"
	DefaultClientSheet  = "fac_cli"
	DefaultMonthPrefix  = "vta_"

	DefaultDashboardTitle = "Dashboard de Ventas"
)

// API paths
const (
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
