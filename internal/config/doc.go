// Package config provides centralized configuration management for salespulse.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALESPULSE_<SECTION>_<FIELD>:
//
//	SALESPULSE_SERVER_PORT=8080
//	SALESPULSE_WORKBOOK_LOCATION=data/ventas.xlsx
//	SALESPULSE_WORKBOOK_LOCATION=gsheets://1AbCdEf
//	SALESPULSE_DASHBOARD_VARIANT=backlog
//	SALESPULSE_DASHBOARD_KEY_ACCOUNTS="LA ARENA S.A.,MINERA NORTE S.A.C."
//	SALESPULSE_LOGGING_LEVEL=debug
//
// SALESPULSE_CONFIG names the YAML file explicitly; otherwise config.yaml
// is looked up in the working directory and configs/.
//
// # Path Management
//
// Relative directories are resolved against the executable directory:
//
//	paths := cfg.GetPaths()
//	if err := paths.EnsureDirectories(); err != nil { ... }
//	out := paths.ExportPath("ventas.csv")
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Default() returns a configuration that needs no environment variables
// or files.
package config
