package derivation

import "github.com/taxengine/dashboard/internal/core/domain"

const progressSteps = 4

// ComputeProgress scores filing completion as four independent 25-point
// milestones: any document uploaded, any form completed or filed, any form
// with a calculated tax, and any completed payment. The steps are
// set-membership checks, not ordered gates, so the result is always one of
// 0, 25, 50, 75, 100.
func ComputeProgress(documents []domain.Document, forms []domain.TaxForm, payments []domain.Payment) int {
	satisfied := 0

	if len(documents) > 0 {
		satisfied++
	}
	if anyForm(forms, func(f domain.TaxForm) bool {
		return f.Status == domain.FormCompleted || f.Status == domain.FormFiled
	}) {
		satisfied++
	}
	if anyForm(forms, func(f domain.TaxForm) bool {
		return f.CalculatedTax != nil
	}) {
		satisfied++
	}
	if anyPayment(payments, func(p domain.Payment) bool {
		return p.Status == domain.PaymentCompleted
	}) {
		satisfied++
	}

	return satisfied * 100 / progressSteps
}

func anyForm(forms []domain.TaxForm, match func(domain.TaxForm) bool) bool {
	for _, f := range forms {
		if match(f) {
			return true
		}
	}
	return false
}

func anyPayment(payments []domain.Payment, match func(domain.Payment) bool) bool {
	for _, p := range payments {
		if match(p) {
			return true
		}
	}
	return false
}
