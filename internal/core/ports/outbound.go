package ports

import (
	"context"
	"io"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// RecordLister reads a user's record collections from the Tax Engine
// platform. The access token is explicit on every call; implementations must
// not cache or default it.
type RecordLister interface {
	ListDocuments(ctx context.Context, token domain.AccessToken) ([]domain.Document, error)
	ListForms(ctx context.Context, token domain.AccessToken) ([]domain.TaxForm, error)
	ListPayments(ctx context.Context, token domain.AccessToken) ([]domain.Payment, error)
}

// UserRecordLister scopes record listing to a specific user for service
// callers (the worker reads with a service token, not the user's own).
type UserRecordLister interface {
	ForUser(userID string) RecordLister
}

// RecordCreator creates forms and payments upstream on the caller's behalf.
type RecordCreator interface {
	CreateForm(ctx context.Context, token domain.AccessToken, form domain.NewForm) (*domain.TaxForm, error)
	CreatePayment(ctx context.Context, token domain.AccessToken, payment domain.NewPayment) (*domain.Payment, error)
}

// DocumentUploader streams a document to the platform's upload endpoint
// untouched; parsing and OCR stay upstream.
type DocumentUploader interface {
	UploadDocument(ctx context.Context, token domain.AccessToken, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// TaxCalculator forwards estimate requests to the platform's tax-calculation
// service.
type TaxCalculator interface {
	Calculate(ctx context.Context, token domain.AccessToken, req domain.TaxEstimateRequest) (*domain.TaxEstimate, error)
}

// DashboardEvents connects the worker to the platform's record-update stream
// and publishes derived dashboard snapshots for push consumers.
type DashboardEvents interface {
	SubscribeRecordsUpdated(ctx context.Context, handler func(ctx context.Context, userID string) error) error
	PublishDashboardUpdated(ctx context.Context, userID string, result domain.DerivationResult) error
}
