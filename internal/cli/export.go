package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Magalhaexz/ChatBot-Viale/internal/config"
	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/spreadsheet"
	"github.com/Magalhaexz/ChatBot-Viale/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta todos os leads para uma planilha xlsx",
	RunE:  runExport,
}

var (
	exportOut    string
	exportStatus string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "arquivo de saída (padrão orcamentos-viale-turismo-AAAA-MM-DD.xlsx)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "exporta só leads com este status")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoadedConfig()
	if err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	repo, db, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	leads, err := repo.List(cmd.Context(), entity.LeadFilter{Status: exportStatus})
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		return fmt.Errorf("nenhum lead encontrado para exportar")
	}

	data, err := spreadsheet.BuildWorkbook(leads)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = spreadsheet.ExportFileName(time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar %s: %w", out, err)
	}

	log.Info().Str("file", out).Int("leads", len(leads)).Msg("📥 Planilha exportada")
	return nil
}
