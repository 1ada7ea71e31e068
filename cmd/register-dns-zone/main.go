package main

import (
	"context"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/register-dns-zone/internal/app"
	"github.com/michelfeldheim/register-dns-zone/internal/config"
	"github.com/michelfeldheim/register-dns-zone/internal/handler"
	"github.com/michelfeldheim/register-dns-zone/internal/logging"
)

// crossAccount is set to "true" at link time for the cross-account build:
//
//	go build -ldflags "-X main.crossAccount=true" ./cmd/register-dns-zone
var crossAccount = "false"

func main() {
	lambda.Start(newHandler(context.Background()).HandleSNS)
}

// newHandler loads configuration once. Any failure yields a handler that
// reports the failure for every event rather than touching DNS.
func newHandler(ctx context.Context) *handler.Handler {
	requireCrossAccount, _ := strconv.ParseBool(crossAccount)

	cfg, cfgErr := config.Load(config.Options{RequireCrossAccount: requireCrossAccount})

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = config.DefaultServiceName
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Development: cfg.LogDevelopment, Output: os.Stdout})
	if err != nil {
		logger, _ = logging.New(logging.Options{Output: os.Stdout})
	}
	log.SetLogger(logger)
	setupLog := logger.WithName("setup").WithValues("service", serviceName)

	if cfgErr != nil {
		return initFailure(setupLog, cfgErr, serviceName, logger)
	}

	reconciler, err := app.NewReconciler(ctx, cfg)
	if err != nil {
		return initFailure(setupLog, err, serviceName, logger)
	}

	setupLog.Info("Handler initialized",
		"rootZoneId", cfg.RootZoneId,
		"crossAccount", cfg.CrossAccount != nil)
	return handler.New(reconciler, serviceName, logger)
}

func initFailure(setupLog logr.Logger, err error, serviceName string, logger logr.Logger) *handler.Handler {
	setupLog.Error(err, "unable to initialize handler")
	return handler.NewFailed(err, serviceName, logger)
}
