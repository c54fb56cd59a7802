// Package taxapi binds the remote Tax Engine platform API. Every call takes
// the caller's access token explicitly; the client keeps no ambient
// credential state.
package taxapi

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taxengine/dashboard/internal/infrastructure/resilience"
)

// Observer receives one observation per finished upstream request.
type Observer interface {
	RecordUpstreamRequest(operation string, duration time.Duration, err error)
}

type Options struct {
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Executor       *resilience.Executor
	Observer       Observer
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	observer   Observer
}

func New(baseURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if options.RateLimitRPS > 0 {
		burst := options.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(options.RateLimitRPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		executor:   options.Executor,
		observer:   options.Observer,
	}
}
