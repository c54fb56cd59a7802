package taxapi

import (
	"context"
	"errors"

	"github.com/taxengine/dashboard/internal/core/domain"
	"github.com/taxengine/dashboard/internal/infrastructure/resilience"
)

// classifyUpstreamError: transient platform failures retry and trip the
// breaker; caller mistakes (bad token, bad payload, missing record) do
// neither, so a stream of 401s never opens the circuit for everyone else.
func classifyUpstreamError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: true,
		}
	}
	if domain.IsKind(err, domain.ErrUnauthorized) ||
		domain.IsKind(err, domain.ErrInvalidInput) ||
		domain.IsKind(err, domain.ErrRecordNotFound) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}
