package derivation

import (
	"github.com/shopspring/decimal"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// Aggregate sums tax owed and amounts actually paid, and computes the signed
// remaining balance.
//
// Forms without a calculated tax contribute nothing to the owed total; only
// payments with status exactly "completed" contribute to the paid total. The
// balance is always exactly owed minus paid: positive means amount still due,
// negative means a refund is owed, zero means paid in full. No rounding
// happens here.
func Aggregate(forms []domain.TaxForm, payments []domain.Payment) (owed, paid, balance decimal.Decimal) {
	owed = decimal.Zero
	for _, f := range forms {
		if f.CalculatedTax != nil {
			owed = owed.Add(*f.CalculatedTax)
		}
	}

	paid = decimal.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
	}

	return owed, paid, owed.Sub(paid)
}
