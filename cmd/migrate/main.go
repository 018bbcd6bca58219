package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/teamspace/internal/config"
	"github.com/Rrens/teamspace/internal/logger"
	"github.com/Rrens/teamspace/internal/repository/postgres"
)

// usage: migrate [up|down]
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	direction := postgres.MigrateUp
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	if direction != postgres.MigrateUp && direction != postgres.MigrateDown {
		log.Fatal().Str("direction", direction).Msg("direction must be up or down")
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("direction", direction).
		Msg("Running migrations")

	if err := postgres.RunMigrations(cfg.Database.DSN(), direction); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
