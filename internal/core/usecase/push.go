package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/core/ports"
)

// PushDashboardUseCase reacts to platform record-update events: it reloads
// the affected user's collections with the service token, derives a fresh
// dashboard, and publishes the snapshot. A failed load drops the event
// without publishing; a stale snapshot is better than one derived from
// partial data.
type PushDashboardUseCase struct {
	records      ports.UserRecordLister
	events       ports.DashboardEvents
	serviceToken domain.AccessToken
	now          func() time.Time
}

func NewPushDashboardUseCase(
	records ports.UserRecordLister,
	events ports.DashboardEvents,
	serviceToken domain.AccessToken,
	now func() time.Time,
) *PushDashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &PushDashboardUseCase{
		records:      records,
		events:       events,
		serviceToken: serviceToken,
		now:          now,
	}
}

func (uc *PushDashboardUseCase) PushForUser(ctx context.Context, userID string) error {
	derive := NewDashboardUseCase(uc.records.ForUser(userID), uc.now)
	result, err := derive.Dashboard(ctx, uc.serviceToken)
	if err != nil {
		return fmt.Errorf("derive dashboard for user %s: %w", userID, err)
	}

	if err := uc.events.PublishDashboardUpdated(ctx, userID, *result); err != nil {
		return fmt.Errorf("publish dashboard for user %s: %w", userID, err)
	}
	return nil
}
