package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/register-dns-zone/internal/config"
	"github.com/michelfeldheim/register-dns-zone/internal/logging"
)

var version = "dev"

type rootOptions struct {
	configPath   string
	logLevel     string
	crossAccount bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "zonectl",
		Short: "Register child zone delegations in the root hosted zone",
		Long: "zonectl manages the NS delegation record of a child zone in the root Route53 hosted zone.\n" +
			"It reads the same DNS_ROOT_ZONE_ID, CROSS_ACCOUNT_IAM_ROLE_NAME and DNS_ROOT_ZONE_ACCOUNT_ID\n" +
			"settings as the Lambda handler.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (env "+config.EnvConfigPath+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug|info|warn|error) (env "+config.EnvLogLevel+")")
	cmd.PersistentFlags().BoolVar(&opts.crossAccount, "cross-account", false, "Require the cross-account role settings")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		level := opts.logLevel
		if level == "" {
			level = os.Getenv(config.EnvLogLevel)
		}
		logger, err := logging.New(logging.Options{Level: level, Development: true, Output: c.ErrOrStderr()})
		if err != nil {
			return err
		}
		log.SetLogger(logger)
		c.SetContext(log.IntoContext(c.Context(), logger))
		return nil
	}

	cmd.AddCommand(newCmdUpsert(opts))
	cmd.AddCommand(newCmdDelete(opts))
	cmd.AddCommand(newCmdGet(opts))
	cmd.AddCommand(newCmdAssumeRole(opts))
	return cmd
}

// loadConfig applies the command line on top of the environment
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.Options{
		RequireCrossAccount: o.crossAccount,
		ConfigPath:          o.configPath,
	})
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
