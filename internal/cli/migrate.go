package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Magalhaexz/ChatBot-Viale/internal/config"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/database"
	"github.com/Magalhaexz/ChatBot-Viale/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Cria a tabela de leads e o trigger de status no Postgres",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoadedConfig()
	if err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrate só se aplica a VIALE_STORE=postgres")
	}

	db, err := database.NewDBConnection(cmd.Context(), cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	log.Info().Msg("✅ Migração concluída")
	return nil
}
