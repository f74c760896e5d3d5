package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/config"
	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/database"
)

// openStore devolve o repositório de leads. db é nil no modo memória.
func openStore(ctx context.Context, cfg *config.Config) (entity.LeadRepositoryInterface, *sql.DB, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("⚠️ Leads em memória: serão perdidos ao reiniciar")
		return database.NewMemoryLeadRepository(), nil, nil
	}

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao conectar no Postgres: %w", err)
	}
	log.Info().Msg("🐘 Postgres conectado")
	return database.NewLeadRepository(db), db, nil
}
