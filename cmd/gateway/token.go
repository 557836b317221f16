package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crud-gateway/internal/auth"
	"crud-gateway/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with auth.jwt_secret",
		Long: `Token prints an HS256 access token for the configured secret. It is meant
for local development and smoke tests.

Example:
  GATEWAY_AUTH_JWT_SECRET=dev gateway token --subject alice --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if !cfg.Auth.Enabled() {
				return errors.New("auth.jwt_secret is not set")
			}

			token, err := auth.GenerateAccessToken(subject, ttl, cfg.Auth.JWTSecret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "dev", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	return cmd
}
