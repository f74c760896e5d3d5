// Package cli define os comandos cobra do bot.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // -ldflags "-X .../internal/cli.version=..."

var rootCmd = &cobra.Command{
	Use:           "viale-bot",
	Short:         "Atendimento automático da VIALE TURISMO no WhatsApp",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
}
