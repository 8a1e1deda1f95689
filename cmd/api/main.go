package main

import (
	"os"

	"github.com/obetrack/outcometrics/internal/pkg/logger"
	"github.com/obetrack/outcometrics/internal/server"
)

// @title OutcoMetrics API
// @version 1.0
// @description Outcome rollup and tabular grade ingestion API for course and program outcome tracking

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
