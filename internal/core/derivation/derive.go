// Package derivation implements the filing-status derivation engine: a pure
// computation over a user's documents, tax forms, and payments that produces
// completion progress, a financial summary, and an ordered notification list.
//
// The engine performs no I/O and reads no clocks; the reference time is a
// parameter so results are deterministic and repeatable. Input slices are
// never mutated.
package derivation

import (
	"time"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// Inputs is the atomic bundle of record collections a derivation runs over.
// All three collections must come from the same consistent fetch; callers that
// fail to load any one of them should not derive at all.
type Inputs struct {
	Documents []domain.Document
	Forms     []domain.TaxForm
	Payments  []domain.Payment
}

// Derive computes the full dashboard state for one user at the given
// reference time.
func Derive(in Inputs, ref time.Time) domain.DerivationResult {
	owed, paid, balance := Aggregate(in.Forms, in.Payments)

	return domain.DerivationResult{
		CompletionPercentage: ComputeProgress(in.Documents, in.Forms, in.Payments),
		TotalTaxOwed:         owed,
		TotalPayments:        paid,
		RemainingBalance:     balance,
		Notifications:        DeriveNotifications(in, ref),
	}
}
