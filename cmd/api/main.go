package main

import (
	"os"

	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/empatecerca/api/internal/server"
)

// @title EmpateCerca API
// @version 1.0
// @description Volunteer management API: volunteers, tutors, students, groups, progress, ratings, announcements and messaging.

// @contact.name EmpateCerca
// @contact.email soporte@empatecerca.org

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within the bootstrap steps
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
