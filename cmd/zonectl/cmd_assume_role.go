package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/michelfeldheim/register-dns-zone/internal/aws"
	"github.com/michelfeldheim/register-dns-zone/internal/config"
)

// newCredentialResolver is swapped out in tests
var newCredentialResolver = func(ctx context.Context, cfg config.Config) (*aws.CrossAccountClientProvider, error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return aws.NewCrossAccountClientProvider(awsCfg, cfg.CrossAccount.AccountId, cfg.CrossAccount.RoleName), nil
}

func newCmdAssumeRole(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assume-role",
		Short: "Check that the cross-account role can be assumed",
		Long:  "Assume the cross-account role and print the session expiration. Credentials are never printed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.CrossAccount == nil {
				return fmt.Errorf("%s and %s must be set to assume a role", config.EnvCrossAccountRoleName, config.EnvRootZoneAccountId)
			}

			resolver, err := newCredentialResolver(ctx, cfg)
			if err != nil {
				return err
			}
			creds, err := resolver.AssumeRole(ctx, cfg.CrossAccount.AccountId, cfg.CrossAccount.RoleName)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\texpires %s\n",
				aws.RoleARN(cfg.CrossAccount.AccountId, cfg.CrossAccount.RoleName),
				creds.Expiration.UTC().Format(time.RFC3339))
			return nil
		},
	}
}
