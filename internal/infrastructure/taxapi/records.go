package taxapi

import (
	"context"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// The platform serves collection endpoints with a trailing slash; without it
// the backend answers with a redirect that drops the Authorization header.
const (
	documentsPath = "/api/documents/"
	formsPath     = "/api/forms/"
	paymentsPath  = "/api/payments/"
)

func (c *Client) ListDocuments(ctx context.Context, token domain.AccessToken) ([]domain.Document, error) {
	var documents []domain.Document
	if err := c.getJSON(ctx, token, documentsPath, &documents, "list_documents"); err != nil {
		return nil, err
	}
	return documents, nil
}

func (c *Client) ListForms(ctx context.Context, token domain.AccessToken) ([]domain.TaxForm, error) {
	var forms []domain.TaxForm
	if err := c.getJSON(ctx, token, formsPath, &forms, "list_forms"); err != nil {
		return nil, err
	}
	return forms, nil
}

func (c *Client) ListPayments(ctx context.Context, token domain.AccessToken) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := c.getJSON(ctx, token, paymentsPath, &payments, "list_payments"); err != nil {
		return nil, err
	}
	return payments, nil
}
