package taxapi

import (
	"context"

	"github.com/taxengine/dashboard/internal/core/domain"
)

const calculatePath = "/api/tax-engine/calculate"

// Calculate forwards an estimate request to the platform's tax-calculation
// service verbatim; no tax-law logic lives on this side.
func (c *Client) Calculate(ctx context.Context, token domain.AccessToken, req domain.TaxEstimateRequest) (*domain.TaxEstimate, error) {
	var estimate domain.TaxEstimate
	if err := c.postJSON(ctx, token, calculatePath, req, &estimate, "calculate_tax"); err != nil {
		return nil, err
	}
	return &estimate, nil
}
