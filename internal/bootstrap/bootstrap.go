// Package bootstrap wires configuration into the concrete adapters and use
// cases shared by the API and worker binaries.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/taxengine/dashboard/internal/config"
	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/core/ports"
	"github.com/taxengine/dashboard/internal/core/usecase"
	"github.com/taxengine/dashboard/internal/infrastructure/queue/nats"
	"github.com/taxengine/dashboard/internal/infrastructure/resilience"
	"github.com/taxengine/dashboard/internal/infrastructure/taxapi"
)

type App struct {
	Config config.Config

	TaxClient   *taxapi.Client
	Events      ports.DashboardEvents
	DashboardUC ports.DashboardProvider
	PushUC      *usecase.PushDashboardUseCase

	closeFn func()
}

// New builds the shared application graph. The observer instruments
// upstream calls and differs between the API and worker processes.
func New(cfg config.Config, observer taxapi.Observer) (*App, error) {
	executor := resilience.NewExecutor(resilience.Config{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
		Breaker: resilience.BreakerConfig{
			Enabled:      cfg.BreakerEnabled,
			MinRequests:  uint32(cfg.BreakerMinRequests),
			FailureRatio: cfg.BreakerFailureRatio,
			OpenTimeout:  cfg.BreakerOpenTimeout,
		},
	})

	taxClient := taxapi.New(cfg.TaxAPIURL, taxapi.Options{
		Timeout:        cfg.TaxAPITimeout,
		RateLimitRPS:   cfg.TaxAPIRateLimitRPS,
		RateLimitBurst: cfg.TaxAPIRateLimitBurst,
		Executor:       executor,
		Observer:       observer,
	})

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSRecordsSubject, cfg.NATSDashboardSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init event bus: %w", err)
	}

	now := time.Now
	dashboardUC := usecase.NewDashboardUseCase(taxClient, now)
	pushUC := usecase.NewPushDashboardUseCase(
		userRecordLister{client: taxClient},
		queue,
		domain.AccessToken(cfg.TaxAPIServiceToken),
		now,
	)

	return &App{
		Config: cfg,

		TaxClient:   taxClient,
		Events:      queue,
		DashboardUC: dashboardUC,
		PushUC:      pushUC,

		closeFn: func() {
			queue.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// userRecordLister narrows the concrete client's ForUser view to the port.
type userRecordLister struct {
	client *taxapi.Client
}

func (l userRecordLister) ForUser(userID string) ports.RecordLister {
	return l.client.ForUser(userID)
}
