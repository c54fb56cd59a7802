package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taxengine/dashboard/internal/core/derivation"
	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/core/ports"
)

// DashboardUseCase joins the three record fetches and runs the derivation
// engine over the combined bundle. The three reads run concurrently; if any
// one fails the whole load fails and no derivation happens, so the engine
// never sees partial data.
type DashboardUseCase struct {
	lister ports.RecordLister
	now    func() time.Time
}

func NewDashboardUseCase(lister ports.RecordLister, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{
		lister: lister,
		now:    now,
	}
}

func (uc *DashboardUseCase) Dashboard(ctx context.Context, token domain.AccessToken) (*domain.DerivationResult, error) {
	if token.IsZero() {
		return nil, domain.WrapError(domain.ErrUnauthorized, "derive dashboard", errors.New("missing access token"))
	}

	var in derivation.Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		documents, err := uc.lister.ListDocuments(gctx, token)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		in.Documents = documents
		return nil
	})
	g.Go(func() error {
		forms, err := uc.lister.ListForms(gctx, token)
		if err != nil {
			return fmt.Errorf("list forms: %w", err)
		}
		in.Forms = forms
		return nil
	})
	g.Go(func() error {
		payments, err := uc.lister.ListPayments(gctx, token)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		in.Payments = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard data: %w", err)
	}

	result := derivation.Derive(in, uc.now())
	return &result, nil
}
