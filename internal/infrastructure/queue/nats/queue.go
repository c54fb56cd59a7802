// Package nats connects the dashboard worker to the Tax Engine platform's
// record-update stream and fans derived dashboard snapshots back out for push
// consumers.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/infrastructure/resilience"
)

const workerQueueGroup = "dashboard-workers"

// recordsUpdatedEvent is what the platform publishes whenever any of a user's
// documents, forms, or payments change.
type recordsUpdatedEvent struct {
	UserID string `json:"user_id"`
}

// dashboardUpdatedEvent carries one freshly derived snapshot.
type dashboardUpdatedEvent struct {
	UserID    string                  `json:"user_id"`
	Dashboard domain.DerivationResult `json:"dashboard"`
}

type Queue struct {
	conn             *nats.Conn
	updatesSubject   string
	snapshotsSubject string
	executor         *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, updatesSubject, snapshotsSubject string) (*Queue, error) {
	return NewWithOptions(url, updatesSubject, snapshotsSubject, Options{})
}

func NewWithOptions(url, updatesSubject, snapshotsSubject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("tax-dashboard"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:             conn,
		updatesSubject:   updatesSubject,
		snapshotsSubject: snapshotsSubject,
		executor:         options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishDashboardUpdated(ctx context.Context, userID string, result domain.DerivationResult) error {
	payload, err := json.Marshal(dashboardUpdatedEvent{
		UserID:    userID,
		Dashboard: result,
	})
	if err != nil {
		return fmt.Errorf("marshal dashboard event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.snapshotsSubject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish_dashboard", call, classifyEventBusError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeRecordsUpdated blocks until ctx is done, handing each update's
// user id to the handler through the worker queue group.
func (q *Queue) SubscribeRecordsUpdated(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.updatesSubject, workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		var event recordsUpdatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("records_updated_event_malformed", "error", err)
			return
		}
		if strings.TrimSpace(event.UserID) == "" {
			slog.Warn("records_updated_event_missing_user")
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, event.UserID); err != nil {
			slog.Error("records_updated_handler_error", "user_id", event.UserID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
