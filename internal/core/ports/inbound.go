package ports

import (
	"context"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// DashboardProvider is the inbound contract for deriving one user's dashboard
// state from their complete record collections.
type DashboardProvider interface {
	Dashboard(ctx context.Context, token domain.AccessToken) (*domain.DerivationResult, error)
}
