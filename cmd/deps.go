package main

import (
	"context"
	"medscan/internal/config"
	"medscan/internal/pipeline"
	"medscan/pkg/analyzer/openrouter"
	"medscan/pkg/httpclient"
	"medscan/pkg/logger"
	"medscan/pkg/productlookup"
	"medscan/pkg/productlookup/barcodelookup"
	"medscan/pkg/storage/postgres"
	"medscan/pkg/vault"
	"medscan/pkg/vault/keyringvault"
	"medscan/pkg/vault/memvault"
	"medscan/pkg/vault/sqlitevault"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getVault opens the configured credential backend and returns the vault
// along with a cleanup function.
func getVault(ctx context.Context, cfg *config.Config) (vault.Vault, func()) {
	options := vault.Options{Service: cfg.Vault.Service, Account: cfg.Vault.Account}

	switch cfg.Vault.Backend {
	case "keyring":
		return vault.New(keyringvault.New(), options), func() {}
	case "memory":
		logger.Warn(ctx, "credential vault is in memory, the credential is lost on exit")

		return vault.New(memvault.New(), options), func() {}
	case "sqlite":
		backend, err := sqlitevault.Open(ctx, cfg.Vault.SQLitePath)
		if err != nil {
			logger.Fatal(ctx, "could not open sqlite vault", zap.String("path", cfg.Vault.SQLitePath), zap.Error(err))
		}

		return vault.New(backend, options), func() {
			if err := backend.Close(); err != nil {
				logger.Warn(ctx, "could not close sqlite vault", zap.Error(err))
			}
		}
	default:
		logger.Fatal(ctx, "unknown vault backend", zap.String("backend", cfg.Vault.Backend))

		return nil, nil
	}
}

// getPipeline builds the outbound clients and the scan pipeline. The product
// lookup is skipped when no API key is configured.
func getPipeline(ctx context.Context, cfg *config.Config, v vault.Vault, mp metric.MeterProvider) pipeline.Pipeline {
	var resolver productlookup.Resolver
	if cfg.ProductLookup.APIKey != "" {
		resolver = barcodelookup.New(
			httpclient.New(httpclient.DefaultConfig().WithTimeout(cfg.ProductLookup.Timeout)),
			barcodelookup.Options{BaseURL: cfg.ProductLookup.BaseURL, APIKey: cfg.ProductLookup.APIKey},
		)
	} else {
		logger.Info(ctx, "product lookup api key is not set, scans go straight to analysis")
	}

	analyzer := openrouter.New(
		httpclient.New(httpclient.DefaultConfig().WithTimeout(cfg.Analyzer.Timeout)),
		v,
		openrouter.Options{
			BaseURL:   cfg.Analyzer.BaseURL,
			Model:     cfg.Analyzer.Model,
			MaxTokens: cfg.Analyzer.MaxTokens,
			Referer:   cfg.Analyzer.Referer,
			Title:     cfg.Analyzer.Title,
		},
	)

	options := pipeline.NewOptions(cfg)
	options.MeterProvider = mp
	p, err := pipeline.New(resolver, analyzer, options)
	if err != nil {
		logger.Fatal(ctx, "could not create scan pipeline", zap.Error(err))
	}

	return p
}
