// Command web serves the sales dashboard API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"salespulse/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults to $SALESPULSE_CONFIG or ./config.yaml)")
	flag.Parse()

	application, err := app.New(context.Background(), *configPath)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
