package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/internal/migrations"
	"github.com/JaimeStill/compliance-reports/pkg/database"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
)

func migrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			logger := logging.New(&cfg.Logging, cmd.ErrOrStderr())

			version, err := database.Migrate(&cfg.Database, migrations.FS, migrations.Dir, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.BaseConfigFile, "base configuration file")

	return cmd
}
