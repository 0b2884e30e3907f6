// Command arbiter runs the constitutional adjudication service: an HTTP
// API that examines candidate outputs against CAWS policy, debates
// competing candidates, and publishes signed verdicts.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dev.caws.arbiter/internal/adjudication"
	"dev.caws.arbiter/internal/adjudication/audit"
	"dev.caws.arbiter/internal/claims"
	"dev.caws.arbiter/internal/config"
	"dev.caws.arbiter/internal/observability/metrics"
	"dev.caws.arbiter/internal/policy"
	"dev.caws.arbiter/internal/review"
	"dev.caws.arbiter/internal/server"
	"dev.caws.arbiter/internal/signing"
	"dev.caws.arbiter/internal/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "arbiter:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	signer, err := buildSigner(cfg.Signing)
	if err != nil {
		return err
	}
	logger.Info("provenance signer ready", zap.String("public_key", signer.PublicKeyHex()))

	archive, err := sqlite.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()

	recorder := audit.NewRecorder()
	collector := metrics.NewCollector()

	engine := adjudication.NewEngine(
		cfg.Adjudication,
		adjudication.Collaborators{
			PolicyValidator:   policy.NewBudgetValidator(logger),
			ClaimProcessor:    claims.NewHeuristicProcessor(logger),
			ConsensusReviewer: review.NewLocalReviewer(logger),
			ProvenanceSigner:  signer,
		},
		adjudication.WithLogger(logger),
		adjudication.WithAuditRecorder(recorder),
		adjudication.WithMetrics(collector),
	)

	srv := server.New(engine,
		server.WithLogger(logger),
		server.WithArchive(archive),
		server.WithAuditRecorder(recorder),
		server.WithMetrics(collector),
	)

	return srv.Run(cfg.Addr())
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func buildSigner(cfg config.SigningConfig) (*signing.Signer, error) {
	if cfg.SeedHex != "" {
		return signing.NewSignerFromSeed(cfg.SeedHex)
	}
	return signing.NewSigner()
}
