package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"engagement-tracker/internal/config"
	"engagement-tracker/internal/service"
)

// newIssueTokenCmd prints a bearer token for the operator HTTP API.
func newIssueTokenCmd(configPath *string) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token <operator>",
		Short: "Print a JWT for the operator HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadTokenConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			tokens, err := service.NewTokenService(cfg.Server.JWTSecret, ttl, zap.NewNop())
			if err != nil {
				return err
			}

			token, expires, err := tokens.Issue(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expires.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", service.DefaultTokenTTL, "token lifetime")
	return cmd
}
