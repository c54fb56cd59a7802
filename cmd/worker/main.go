package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taxengine/dashboard/internal/bootstrap"
	"github.com/taxengine/dashboard/internal/config"
	"github.com/taxengine/dashboard/internal/observability/logging"
	"github.com/taxengine/dashboard/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("dashboard-worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics()

	app, err := bootstrap.New(cfg, workerMetrics)
	if err != nil {
		slog.Error("bootstrap", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux(workerMetrics),
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSRecordsSubject)
	err = app.Events.SubscribeRecordsUpdated(ctx, func(handlerCtx context.Context, userID string) error {
		pushCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		start := time.Now()
		workerMetrics.PushStarted()
		defer workerMetrics.PushFinished()

		pushErr := app.PushUC.PushForUser(pushCtx, userID)
		if pushErr != nil {
			workerMetrics.RecordPush("error", time.Since(start))
			return pushErr
		}
		workerMetrics.RecordPush("success", time.Since(start))
		return nil
	})
	if err != nil {
		slog.Error("worker subscribe", "error", err)
		os.Exit(1)
	}
}

func metricsMux(workerMetrics *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", workerMetrics.Handler())
	return mux
}
