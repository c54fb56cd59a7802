// Package httpadapter exposes the dashboard API over HTTP. Handlers stay
// thin: they extract the caller's bearer token, delegate to the use cases
// or the Tax Engine client ports, and translate domain errors to status
// codes.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/core/ports"
	"github.com/taxengine/dashboard/internal/observability/metrics"
)

// Options carries the traffic-control knobs for the public surface.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
	OverloadWait   time.Duration
}

type Router struct {
	dashboardUC ports.DashboardProvider
	records     ports.RecordLister
	creator     ports.RecordCreator
	uploader    ports.DocumentUploader
	calculator  ports.TaxCalculator
	metrics     *metrics.HTTPServerMetrics
	opts        Options
}

func NewRouter(
	dashboardUC ports.DashboardProvider,
	records ports.RecordLister,
	creator ports.RecordCreator,
	uploader ports.DocumentUploader,
	calculator ports.TaxCalculator,
	serverMetrics *metrics.HTTPServerMetrics,
	opts Options,
) *Router {
	return &Router{
		dashboardUC: dashboardUC,
		records:     records,
		creator:     creator,
		uploader:    uploader,
		calculator:  calculator,
		metrics:     serverMetrics,
		opts:        opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/dashboard", rt.getDashboard)
	mux.HandleFunc("/v1/documents", rt.listDocuments)
	mux.HandleFunc("/v1/documents/upload", rt.uploadDocument)
	mux.HandleFunc("/v1/forms", rt.handleForms)
	mux.HandleFunc("/v1/payments", rt.handlePayments)
	mux.HandleFunc("/v1/calculator", rt.calculate)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.opts.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.opts.MaxConcurrent, rt.opts.OverloadWait)
	}
	if rt.opts.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) getDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	token, ok := rt.requireToken(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := rt.dashboardUC.Dashboard(r.Context(), token)
	if err != nil {
		rt.recordDerivation("error", nil, time.Since(start))
		writeError(w, err)
		return
	}
	rt.recordDerivation("success", result, time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		// POST /v1/documents is an alias for the upload endpoint.
		rt.uploadDocument(w, r)
		return
	default:
		writeMethodNotAllowed(w)
		return
	}
	token, ok := rt.requireToken(w, r)
	if !ok {
		return
	}

	docs, err := rt.records.ListDocuments(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	token, ok := rt.requireToken(w, r)
	if !ok {
		return
	}

	file, fileHeader, err := r.FormFile("files")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.uploader.UploadDocument(
		r.Context(),
		token,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) handleForms(w http.ResponseWriter, r *http.Request) {
	token, ok := rt.requireToken(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		forms, err := rt.records.ListForms(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, forms)
	case http.MethodPost:
		var req domain.NewForm
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(req.FormType) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form_type is required"})
			return
		}
		form, err := rt.creator.CreateForm(r.Context(), token, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, form)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) handlePayments(w http.ResponseWriter, r *http.Request) {
	token, ok := rt.requireToken(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		payments, err := rt.records.ListPayments(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	case http.MethodPost:
		var req domain.NewPayment
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if req.PaymentType == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_type is required"})
			return
		}
		if req.Amount.IsNegative() || req.Amount.IsZero() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
			return
		}
		payment, err := rt.creator.CreatePayment(r.Context(), token, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, payment)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	token, ok := rt.requireToken(w, r)
	if !ok {
		return
	}

	var req domain.TaxEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	estimate, err := rt.calculator.Calculate(r.Context(), token, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

func (rt *Router) requireToken(w http.ResponseWriter, r *http.Request) (domain.AccessToken, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token.IsZero() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bearer token is required"})
		return "", false
	}
	return token, true
}

func (rt *Router) recordDerivation(outcome string, result *domain.DerivationResult, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	completion := 0
	if result != nil {
		completion = result.CompletionPercentage
		for _, n := range result.Notifications {
			rt.metrics.RecordNotification(string(n.Category), string(n.Severity))
		}
	}
	rt.metrics.RecordDerivation(outcome, completion, duration)
}

// bearerToken extracts the caller's token from an Authorization header.
// The token is forwarded to the platform, never validated here.
func bearerToken(headerValue string) domain.AccessToken {
	headerValue = strings.TrimSpace(headerValue)
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return ""
	}
	return domain.AccessToken(strings.TrimSpace(strings.TrimPrefix(headerValue, bearerPrefix)))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
