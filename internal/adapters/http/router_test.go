package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/core/usecase"
)

var errUpstream = errors.New("upstream unavailable")

type recordListerStub struct {
	documents []domain.Document
	forms     []domain.TaxForm
	payments  []domain.Payment
	err       error

	mu        sync.Mutex
	lastToken domain.AccessToken
}

func (s *recordListerStub) recordToken(token domain.AccessToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastToken = token
}

func (s *recordListerStub) token() domain.AccessToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastToken
}

func (s *recordListerStub) ListDocuments(_ context.Context, token domain.AccessToken) ([]domain.Document, error) {
	s.recordToken(token)
	return s.documents, s.err
}

func (s *recordListerStub) ListForms(_ context.Context, token domain.AccessToken) ([]domain.TaxForm, error) {
	s.recordToken(token)
	return s.forms, s.err
}

func (s *recordListerStub) ListPayments(_ context.Context, token domain.AccessToken) ([]domain.Payment, error) {
	s.recordToken(token)
	return s.payments, s.err
}

type mutationStub struct {
	form     *domain.TaxForm
	payment  *domain.Payment
	document *domain.Document
	estimate *domain.TaxEstimate
	err      error

	lastToken    domain.AccessToken
	lastFilename string
}

func (s *mutationStub) CreateForm(_ context.Context, token domain.AccessToken, form domain.NewForm) (*domain.TaxForm, error) {
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func (s *mutationStub) CreatePayment(_ context.Context, token domain.AccessToken, payment domain.NewPayment) (*domain.Payment, error) {
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.payment, nil
}

func (s *mutationStub) UploadDocument(_ context.Context, token domain.AccessToken, filename, _ string, body io.Reader) (*domain.Document, error) {
	s.lastToken = token
	s.lastFilename = filename
	_, _ = io.Copy(io.Discard, body)
	if s.err != nil {
		return nil, s.err
	}
	return s.document, nil
}

func (s *mutationStub) Calculate(_ context.Context, token domain.AccessToken, _ domain.TaxEstimateRequest) (*domain.TaxEstimate, error) {
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.estimate, nil
}

func newTestHandler(lister *recordListerStub, mutations *mutationStub, opts Options) http.Handler {
	now := func() time.Time {
		return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	}
	router := NewRouter(
		usecase.NewDashboardUseCase(lister, now),
		lister,
		mutations,
		mutations,
		mutations,
		nil,
		opts,
	)
	return router.Handler()
}

func TestGetDashboardDerivesFromFetchedRecords(t *testing.T) {
	completed := decimal.RequireFromString("1500.00")
	lister := &recordListerStub{
		documents: []domain.Document{{ID: 1, Status: domain.DocumentProcessed}},
		forms:     []domain.TaxForm{{ID: 2, Status: domain.FormCompleted, CalculatedTax: &completed}},
		payments:  []domain.Payment{{ID: 3, Status: domain.PaymentCompleted, Amount: decimal.RequireFromString("1200.00")}},
	}
	handler := newTestHandler(lister, &mutationStub{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer user-token-1")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if got := lister.token(); got != "user-token-1" {
		t.Fatalf("expected forwarded bearer token, got %q", got)
	}

	var result domain.DerivationResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode dashboard response: %v", err)
	}
	if result.CompletionPercentage != 100 {
		t.Fatalf("expected completion 100, got %d", result.CompletionPercentage)
	}
	if !result.RemainingBalance.Equal(decimal.RequireFromString("300.00")) {
		t.Fatalf("expected remaining balance 300.00, got %s", result.RemainingBalance)
	}
	// March 20 sits inside the deadline reminder window.
	found := false
	for _, n := range result.Notifications {
		if n.Category == domain.CategoryDeadlineReminder {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected deadline reminder notification, got %+v", result.Notifications)
	}
}

func TestDashboardRequiresBearerToken(t *testing.T) {
	handler := newTestHandler(&recordListerStub{}, &mutationStub{}, Options{})

	for _, header := range []string{"", "Basic abc", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, res.Code)
		}
	}
}

func TestErrorKindsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthorized", domain.WrapError(domain.ErrUnauthorized, "list documents", errUpstream), http.StatusUnauthorized},
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "list documents", errUpstream), http.StatusBadRequest},
		{"not found", domain.WrapError(domain.ErrRecordNotFound, "list documents", errUpstream), http.StatusNotFound},
		{"temporary", domain.WrapError(domain.ErrTemporary, "list documents", errUpstream), http.StatusServiceUnavailable},
		{"unknown", errUpstream, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(&recordListerStub{err: tc.err}, &mutationStub{}, Options{})
			req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
			req.Header.Set("Authorization", "Bearer t")
			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)
			if res.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, res.Code)
			}
		})
	}
}

func TestCreateFormValidatesPayload(t *testing.T) {
	mutations := &mutationStub{form: &domain.TaxForm{ID: 7, FormType: "1040", TaxYear: 2023, Status: domain.FormDraft}}
	handler := newTestHandler(&recordListerStub{}, mutations, Options{})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"missing form type", `{"tax_year": 2023}`, http.StatusBadRequest},
		{"valid", `{"form_type": "1040", "tax_year": 2023}`, http.StatusCreated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/forms", strings.NewReader(tc.body))
			req.Header.Set("Authorization", "Bearer t")
			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)
			if res.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, res.Code, res.Body.String())
			}
		})
	}
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	handler := newTestHandler(&recordListerStub{}, &mutationStub{}, Options{})

	for _, amount := range []string{"0", "-25.00"} {
		body := `{"payment_type": "tax_payment", "amount": "` + amount + `"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer t")
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("amount %s: expected 400, got %d", amount, res.Code)
		}
	}
}

func TestUploadDocumentForwardsMultipartFile(t *testing.T) {
	mutations := &mutationStub{document: &domain.Document{ID: 11, Filename: "w2.pdf", Status: domain.DocumentUploaded}}
	handler := newTestHandler(&recordListerStub{}, mutations, Options{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "w2.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/upload", &buf)
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	if mutations.lastFilename != "w2.pdf" {
		t.Fatalf("expected filename forwarded, got %q", mutations.lastFilename)
	}

	// Missing multipart field is the caller's mistake.
	req2 := httptest.NewRequest(http.MethodPost, "/v1/documents/upload", strings.NewReader("not multipart"))
	req2.Header.Set("Authorization", "Bearer t")
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing multipart field, got %d", res2.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&recordListerStub{}, &mutationStub{}, Options{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/forms", nil)
	req.Header.Set("Authorization", "Bearer t")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestRequestIDHeaderIsEchoed(t *testing.T) {
	handler := newTestHandler(&recordListerStub{}, &mutationStub{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req2.Header.Set(requestIDHeader, "req-abc")
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if got := res2.Header().Get(requestIDHeader); got != "req-abc" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}
