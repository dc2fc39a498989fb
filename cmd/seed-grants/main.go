package main

import (
	"context"

	"github.com/edudesk/school-backend/internal/config"
	"github.com/edudesk/school-backend/internal/database"
	"github.com/edudesk/school-backend/internal/logger"
	"github.com/edudesk/school-backend/internal/model"
	"github.com/edudesk/school-backend/internal/repository"
)

// Installs the default permission grant sets for the built-in roles.
// Existing grant records for the same roles are overwritten.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	grantRepo := repository.NewGrantRepository(pool)

	for _, grant := range model.DefaultGrants() {
		g := grant
		if err := grantRepo.Save(ctx, &g); err != nil {
			log.Fatal().Err(err).Str("role", string(g.Role)).Msg("Failed to seed grant set")
		}
		log.Info().
			Str("role", string(g.Role)).
			Int("permissions", len(g.Permissions)).
			Msg("Seeded grant set")
	}

	log.Info().Msg("Default grants installed")
}
