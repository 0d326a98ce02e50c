package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/pkg/auth"
)

func tokenCmd() *cobra.Command {
	var configPath string
	var id auth.Identity

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			token, err := auth.Issue(&cfg.Auth, id, time.Now())
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.BaseConfigFile, "base configuration file")
	cmd.Flags().StringVar(&id.ID, "sub", "", "subject (owner id)")
	cmd.Flags().StringVar(&id.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&id.Role, "role", "user", "role claim")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
