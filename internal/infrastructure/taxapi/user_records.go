package taxapi

import (
	"context"
	"net/url"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// UserRecords is a view of the record endpoints scoped to one user, for
// service-token callers. The platform authorizes the user_id filter only for
// service accounts.
type UserRecords struct {
	client *Client
	userID string
}

func (c *Client) ForUser(userID string) *UserRecords {
	return &UserRecords{client: c, userID: userID}
}

func (u *UserRecords) ListDocuments(ctx context.Context, token domain.AccessToken) ([]domain.Document, error) {
	var documents []domain.Document
	if err := u.client.getJSON(ctx, token, scopedPath(documentsPath, u.userID), &documents, "list_documents"); err != nil {
		return nil, err
	}
	return documents, nil
}

func (u *UserRecords) ListForms(ctx context.Context, token domain.AccessToken) ([]domain.TaxForm, error) {
	var forms []domain.TaxForm
	if err := u.client.getJSON(ctx, token, scopedPath(formsPath, u.userID), &forms, "list_forms"); err != nil {
		return nil, err
	}
	return forms, nil
}

func (u *UserRecords) ListPayments(ctx context.Context, token domain.AccessToken) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := u.client.getJSON(ctx, token, scopedPath(paymentsPath, u.userID), &payments, "list_payments"); err != nil {
		return nil, err
	}
	return payments, nil
}

func scopedPath(path, userID string) string {
	return path + "?user_id=" + url.QueryEscape(userID)
}
