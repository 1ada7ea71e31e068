package app

import (
	"context"

	"github.com/michelfeldheim/register-dns-zone/internal/aws"
	"github.com/michelfeldheim/register-dns-zone/internal/config"
	"github.com/michelfeldheim/register-dns-zone/internal/zone"
)

// NewReconciler wires a zone.Reconciler for cfg. In the cross-account
// variant every reconciliation assumes the configured role first.
func NewReconciler(ctx context.Context, cfg config.Config) (*zone.Reconciler, error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	var clients aws.ClientProvider
	if cfg.CrossAccount != nil {
		clients = aws.NewCrossAccountClientProvider(awsCfg, cfg.CrossAccount.AccountId, cfg.CrossAccount.RoleName)
	} else {
		clients = aws.NewAmbientClientProvider(awsCfg)
	}

	return &zone.Reconciler{
		RootZoneId: cfg.RootZoneId,
		Clients:    clients,
	}, nil
}
