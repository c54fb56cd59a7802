package domain

import "github.com/shopspring/decimal"

// TaxEstimateRequest is forwarded verbatim to the platform's tax-calculation
// service; no tax-law computation happens in this service.
type TaxEstimateRequest struct {
	Income       decimal.Decimal `json:"income"`
	Deductions   decimal.Decimal `json:"deductions"`
	FilingStatus string          `json:"filing_status"`
}

type TaxEstimate struct {
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	EstimatedTax  decimal.Decimal `json:"estimated_tax"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}
