package main

import (
	"fmt"
	"log/slog"

	"github.com/ivanquesadapalmero/planazo-backend/internal/database"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/config"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is what every subcommand needs once configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (e *env) openDB() (*gorm.DB, error) {
	db, err := database.Connect(&e.cfg.Database, e.logger)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func newRootCommand() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "planazoctl",
		Short:         "Planazo administration tool",
		Long:          `Runs schema migrations and seeds reference data for the Planazo backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			e.cfg = cfg
			e.logger = util.NewLogger(cfg.Server.Env)
			return nil
		},
	}

	root.AddCommand(newMigrateCommand(e))
	root.AddCommand(newSeedCommand(e))
	root.AddCommand(newVersionCommand())
	return root
}
