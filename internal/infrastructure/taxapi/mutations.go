package taxapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/taxengine/dashboard/internal/core/domain"
)

const uploadPath = "/api/documents/upload"

func (c *Client) CreateForm(ctx context.Context, token domain.AccessToken, form domain.NewForm) (*domain.TaxForm, error) {
	var created domain.TaxForm
	if err := c.postJSON(ctx, token, formsPath, form, &created, "create_form"); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreatePayment(ctx context.Context, token domain.AccessToken, payment domain.NewPayment) (*domain.Payment, error) {
	var created domain.Payment
	if err := c.postJSON(ctx, token, paymentsPath, payment, &created, "create_payment"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadDocument streams one file to the platform's multipart upload
// endpoint. The body is buffered up front so the resilience executor can
// replay the request on a transient failure.
func (c *Client) UploadDocument(
	ctx context.Context,
	token domain.AccessToken,
	filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, sanitizeFilename(filename)))
	if mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create upload part: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, fmt.Errorf("buffer upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish upload body: %w", err)
	}

	var uploaded []domain.Document
	if err := c.roundTrip(ctx, token, http.MethodPost, uploadPath, writer.FormDataContentType(), buf.Bytes(), &uploaded, "upload_document"); err != nil {
		return nil, err
	}
	if len(uploaded) == 0 {
		return nil, fmt.Errorf("upload_document: empty platform response")
	}
	return &uploaded[0], nil
}

func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "/", "_")
	return strings.TrimSpace(filename)
}
