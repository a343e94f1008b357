package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"rinsetu/internal/aggregator"
	"rinsetu/internal/config"
	"rinsetu/internal/creditscore"
	"rinsetu/internal/domain"
	"rinsetu/internal/email/noop"
	"rinsetu/internal/email/ses"
	"rinsetu/internal/engine"
	"rinsetu/internal/extractor"
	"rinsetu/internal/extractor/remote"
	"rinsetu/internal/handler"
	"rinsetu/internal/port"
	"rinsetu/internal/reconciler"
	"rinsetu/internal/repository/postgres"
	"rinsetu/internal/router"
	"rinsetu/internal/service"
	"rinsetu/internal/session"
	"rinsetu/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	auditRepo := postgres.NewDecisionAuditRepo(db)

	// In-memory session store with expiry janitor
	store := session.NewStore(cfg.Session.TTL)
	go store.StartJanitor(ctx, cfg.Session.SweepInterval)

	// Extraction chain: configured providers first, regex recovery last
	docExtractor, err := buildExtractor(cfg)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	// Email
	emailSender, err := buildEmailSender(cfg)
	if err != nil {
		return fmt.Errorf("failed to build email sender: %w", err)
	}

	// Decision core
	validatorEngine := validator.NewEngine(validator.NewDefaultRegistry())
	rec := reconciler.New(reconciler.Config{
		NameEditDistance:    cfg.Rules.NameEditDistance,
		AddressEditDistance: cfg.Rules.AddressEditDistance,
	})
	agg := aggregator.New(aggregator.Config{
		DeviationTolerance: cfg.Rules.IncomeDeviationTolerance,
	})
	analyzer, err := creditscore.New(creditscore.Config{
		Weights:   cfg.Rules.Weights(),
		Threshold: cfg.Rules.ComponentThreshold,
	})
	if err != nil {
		return fmt.Errorf("invalid credit score configuration: %w", err)
	}
	mandatory := make([]domain.DocumentType, 0, len(cfg.Rules.MandatoryDocuments))
	for _, d := range cfg.Rules.MandatoryDocuments {
		mandatory = append(mandatory, domain.DocumentType(d))
	}
	decisionEngine, err := engine.New(engine.Config{
		ScoreFloor:         cfg.Rules.ScoreFloor,
		ScoreExcellentMin:  cfg.Rules.ScoreExcellentMin,
		ScoreGoodMin:       cfg.Rules.ScoreGoodMin,
		DTILowMax:          cfg.Rules.DTILowMax,
		DTIMediumMax:       cfg.Rules.DTIMediumMax,
		Multipliers:        cfg.Rules.Multipliers(),
		MandatoryDocuments: mandatory,
		RequireIncomeProof: cfg.Rules.RequireIncomeProof,
		IdentityFields:     reconciler.IdentityFields(),
	})
	if err != nil {
		return fmt.Errorf("invalid decision engine configuration: %w", err)
	}

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo, emailSender)
	reportSvc := service.NewReportService(store, auditRepo)
	evalSvc := service.NewEvaluationService(
		store, docExtractor, validatorEngine, rec, agg, analyzer, decisionEngine,
		auditRepo, userRepo, emailSender,
	)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	sessionH := handler.NewSessionHandler(evalSvc, reportSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db, store)

	r := router.Setup(cfg, authSvc, authH, sessionH, userH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor assembles the fallback chain from the configured providers
// plus the built-in regex extractor as last resort.
func buildExtractor(cfg *config.Config) (port.DocumentExtractor, error) {
	extractor.RegisterProvider("remote", func(pc *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return remote.NewExtractor(pc), nil
	})

	chain, err := extractor.BuildChain(&cfg.Extractor.Primary, cfg.Extractor.SecondaryConfig())
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func buildEmailSender(cfg *config.Config) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
	default:
		return noop.NewNoopSender(), nil
	}
}
