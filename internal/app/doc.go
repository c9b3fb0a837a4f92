// Package app wires the sales dashboard together: configuration, logging,
// OpenTelemetry, the workbook loader and cache, the services, and the HTTP
// router and server.
//
// # Initialization Flow
//
//  1. Load configuration from the YAML file and SALESPULSE_* variables
//  2. Initialize logging and observability
//  3. Resolve the workbook (configured location or newest file in the data dir)
//  4. Build the loader, cache and services
//  5. Set up HTTP handlers and middleware
//  6. Start the HTTP server and warm the cache
//
// # Usage
//
//	application, err := app.New(ctx, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run handles SIGINT and SIGTERM: in-flight requests are drained within
// Server.ShutdownTimeout and the OpenTelemetry providers are flushed.
package app
