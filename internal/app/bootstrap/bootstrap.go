// Package bootstrap is the composition root.
// Keep construction and wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	applicationservice "creditapp/contexts/lending/application-service"
	apppostgres "creditapp/contexts/lending/application-service/adapters/postgres"
	appcommands "creditapp/contexts/lending/application-service/application/commands"
	appports "creditapp/contexts/lending/application-service/ports"
	offerservice "creditapp/contexts/lending/offer-service"
	offerpostgres "creditapp/contexts/lending/offer-service/adapters/postgres"
	sesadapter "creditapp/contexts/lending/offer-service/adapters/ses"
	offerports "creditapp/contexts/lending/offer-service/ports"
	realtimegateway "creditapp/contexts/lending/realtime-gateway"
	"creditapp/internal/platform/audit"
	"creditapp/internal/platform/config"
	"creditapp/internal/platform/db"
	"creditapp/internal/platform/httpserver"
	"creditapp/internal/platform/metrics"
	"creditapp/internal/platform/scheduler"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	jobs     []scheduler.Job
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	pg, modules, err := buildModules(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(
		modules.applications,
		modules.offers,
		modules.gateway,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	pg, modules, err := buildModules(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	var jobs []scheduler.Job
	if cfg.EnableExpirySweep {
		expirer := modules.offers.Expirer
		jobs = append(jobs, scheduler.NewDailyUTC("offer_expirer", func(ctx context.Context) error {
			_, err := expirer.RunOnce(ctx)
			return err
		}))
	}
	if cfg.EnableWarningSweep {
		warning := modules.offers.WarningSweep
		jobs = append(jobs, scheduler.NewInterval("expiry_warning", cfg.WarningSweepInterval, func(ctx context.Context) error {
			_, err := warning.RunOnce(ctx)
			return err
		}))
	}

	return &WorkerApp{
		postgres: pg,
		jobs:     jobs,
		logger:   logger,
	}, nil
}

type lendingModules struct {
	applications applicationservice.Module
	offers       offerservice.Module
	gateway      realtimegateway.Module
}

func buildModules(ctx context.Context, cfg config.Config, logger *slog.Logger) (*db.Postgres, lendingModules, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, lendingModules{}, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, lendingModules{}, err
	}

	appRepo := apppostgres.NewRepository(pg.DB, logger)
	offerRepo := offerpostgres.NewRepository(pg.DB, logger)
	recorder := audit.NewRecorder(pg.DB, logger)
	gateway := realtimegateway.NewModule(logger)

	applications := applicationservice.NewModule(applicationservice.Dependencies{
		Applications: appRepo,
		Banks:        offerRepo,
		Broadcaster:  gateway.Registry,
		Audit:        recorder,
		Clock:        apppostgres.SystemClock{},
		IDGenerator:  apppostgres.UUIDGenerator{},
		Logger:       logger,
	})

	notifier, err := sesadapter.NewNotifier(
		ctx,
		cfg.AWSRegion,
		cfg.WarningSender,
		cfg.WarningRecipient,
		cfg.BaseURL,
		logger,
	)
	if err != nil {
		_ = pg.Close()
		return nil, lendingModules{}, err
	}

	offers := offerservice.NewModule(offerservice.Dependencies{
		Offers: offerRepo,
		Applications: applicationGateway{
			repo:   appRepo,
			change: applications.ChangeStatus,
			revert: applications.RevertAcceptance,
		},
		Notifier:        notifier,
		Broadcaster:     gateway.Registry,
		Audit:           recorder,
		Metrics:         metrics.Sink{},
		Clock:           offerpostgres.SystemClock{},
		IDGenerator:     offerpostgres.UUIDGenerator{},
		DispatchTimeout: cfg.WarningDispatchTimeout,
		Logger:          logger,
	})

	return pg, lendingModules{
		applications: applications,
		offers:       offers,
		gateway:      gateway,
	}, nil
}

// applicationGateway adapts application-service use cases to the narrow
// view the offer workflows consume. Reads go straight to the repository so
// no ownership check applies on cross-context lookups.
type applicationGateway struct {
	repo   appports.ApplicationRepository
	change appcommands.ChangeStatusUseCase
	revert appcommands.RevertAcceptanceUseCase
}

func (g applicationGateway) GetApplication(ctx context.Context, applicationID string) (offerports.ApplicationSummary, error) {
	item, err := g.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return offerports.ApplicationSummary{}, err
	}
	return offerports.ApplicationSummary{
		ApplicationID: item.ApplicationID,
		BorrowerID:    item.BorrowerID,
		Status:        string(item.Status),
	}, nil
}

func (g applicationGateway) ChangeStatus(ctx context.Context, applicationID string, newStatus string) error {
	_, err := g.change.Execute(ctx, appcommands.ChangeStatusCommand{
		ApplicationID: applicationID,
		NewStatus:     newStatus,
	})
	return err
}

func (g applicationGateway) RevertToSubmitted(ctx context.Context, applicationID string) error {
	_, err := g.revert.Execute(ctx, applicationID)
	return err
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"jobs", len(w.jobs),
	)

	var wg sync.WaitGroup
	for _, job := range w.jobs {
		wg.Add(1)
		go func(job scheduler.Job) {
			defer wg.Done()
			job.Run(ctx, w.logger)
		}(job)
	}
	wg.Wait()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
