package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"student-records/config"
	"student-records/database"
	"student-records/logging"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	configFile string
	cfg        *config.Config
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	if a.configFile != "" {
		os.Setenv("CONFIG_FILE", a.configFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	a.cfg = cfg

	slog.Debug("configuration loaded",
		"command", cmd.Name(),
		"db_driver", cfg.DBDriver,
		"server_port", cfg.ServerPort,
		"mirror_port", cfg.MirrorPort,
		"mirror_enabled", cfg.MirrorEnabled)
	return nil
}

// openDB opens the configured store; the caller closes it.
func (a *app) openDB() (*sqlx.DB, error) {
	db, err := database.InitDB(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	return db, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "student-records",
		Short:             "Student records: groups, students, events and reports",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")

	root.AddCommand(
		newServeCmd(a),
		newInitDBCmd(a),
		newImportCmd(a),
		newImportPeriodsCmd(a),
		newExportCmd(a),
		newReportCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
