package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michelfeldheim/register-dns-zone/internal/app"
	"github.com/michelfeldheim/register-dns-zone/internal/zone"
)

// newReconciler is swapped out in tests
var newReconciler = app.NewReconciler

type zoneFlags struct {
	zoneName    string
	nameServers []string
}

func (f *zoneFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.zoneName, "zone", "", "Child zone name (e.g. dev.example.com)")
	cmd.Flags().StringSliceVar(&f.nameServers, "ns", nil, "Nameservers of the child zone (repeatable or comma-separated)")
}

func (f *zoneFlags) request() zone.Request {
	return zone.Request{ZoneName: f.zoneName, NameServers: f.nameServers}
}

func (o *rootOptions) reconciler(ctx context.Context) (*zone.Reconciler, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return newReconciler(ctx, cfg)
}

func newCmdUpsert(opts *rootOptions) *cobra.Command {
	flags := &zoneFlags{}
	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update the NS record of a child zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := flags.request()
			if err := req.Validate(); err != nil {
				return err
			}

			r, err := opts.reconciler(ctx)
			if err != nil {
				return err
			}
			changeId, err := r.Upsert(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), changeId)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newCmdDelete(opts *rootOptions) *cobra.Command {
	flags := &zoneFlags{}
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the NS record of a child zone",
		Long:  "Delete the NS record of a child zone. The nameservers must match the existing record exactly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := flags.request()
			if err := req.Validate(); err != nil {
				return err
			}

			r, err := opts.reconciler(ctx)
			if err != nil {
				return err
			}
			return r.Delete(ctx, req)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newCmdGet(opts *rootOptions) *cobra.Command {
	flags := &zoneFlags{}
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the NS record delegating a child zone",
		Long:  "Query Route53 for the NS record of a child zone in the root hosted zone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := opts.reconciler(ctx)
			if err != nil {
				return err
			}
			record, err := r.Lookup(ctx, flags.zoneName)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("no %s record for %s in zone %s", zone.RecordType, zone.FQDN(flags.zoneName), r.RootZoneId)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", record.Name, record.TTL, strings.Join(record.Values, ","))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.zoneName, "zone", "", "Child zone name (e.g. dev.example.com)")
	return cmd
}
