package taxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taxengine/dashboard/internal/core/domain"
)

func (c *Client) getJSON(ctx context.Context, token domain.AccessToken, path string, out any, operation string) error {
	return c.roundTrip(ctx, token, http.MethodGet, path, "", nil, out, operation)
}

func (c *Client) postJSON(ctx context.Context, token domain.AccessToken, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}
	return c.roundTrip(ctx, token, http.MethodPost, path, "application/json", body, out, operation)
}

// roundTrip performs one upstream call under the rate limiter and, when
// configured, the retry/breaker executor. The request body is kept as bytes
// so retries can replay it.
func (c *Client) roundTrip(
	ctx context.Context,
	token domain.AccessToken,
	method, path, contentType string,
	body []byte,
	out any,
	operation string,
) error {
	call := func(callCtx context.Context) error {
		return c.doOnce(callCtx, token, method, path, contentType, body, out, operation)
	}

	start := time.Now()
	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyUpstreamError)
	} else {
		err = call(ctx)
	}
	if c.observer != nil {
		c.observer.RecordUpstreamRequest(operation, time.Since(start), err)
	}
	return err
}

func (c *Client) doOnce(
	ctx context.Context,
	token domain.AccessToken,
	method, path, contentType string,
	body []byte,
	out any,
	operation string,
) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !token.IsZero() {
		req.Header.Set("Authorization", "Bearer "+string(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return upstreamHTTPError(operation, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// upstreamHTTPError maps platform status codes onto domain error kinds so the
// rest of the service can branch with errors.Is instead of status codes.
func upstreamHTTPError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	base := fmt.Errorf("tax platform %s status: %s", operation, resp.Status)
	if msg != "" {
		base = fmt.Errorf("tax platform %s status: %s: %s", operation, resp.Status, msg)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.WrapError(domain.ErrUnauthorized, operation, base)
	case resp.StatusCode == http.StatusNotFound:
		return domain.WrapError(domain.ErrRecordNotFound, operation, base)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.WrapError(domain.ErrInvalidInput, operation, base)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return domain.WrapError(domain.ErrTemporary, operation, base)
	default:
		return base
	}
}
