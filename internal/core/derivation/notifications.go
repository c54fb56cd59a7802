package derivation

import (
	"fmt"
	"time"

	"github.com/taxengine/dashboard/internal/core/domain"
)

// DeriveNotifications evaluates the notification rules in their fixed display
// order. Each rule contributes at most one notification and a zero count
// contributes nothing, so no two notifications ever share a category. The
// order is significant: callers render the list as-is, not sorted by
// severity.
func DeriveNotifications(in Inputs, ref time.Time) []domain.Notification {
	out := make([]domain.Notification, 0, 5)

	if n := countDocumentsClassified(in.Documents, domain.StatusWarning); n > 0 {
		out = append(out, domain.Notification{
			Severity: domain.SeverityInfo,
			Category: domain.CategoryDocumentsProcessing,
			Message:  fmt.Sprintf("%d document(s) are being processed.", n),
		})
	}
	if n := countDocumentsClassified(in.Documents, domain.StatusError); n > 0 {
		out = append(out, domain.Notification{
			Severity: domain.SeverityError,
			Category: domain.CategoryDocumentsFailed,
			Message:  fmt.Sprintf("%d document(s) failed to process.", n),
		})
	}
	if n := countIncompleteForms(in.Forms); n > 0 {
		out = append(out, domain.Notification{
			Severity: domain.SeverityWarning,
			Category: domain.CategoryFormsIncomplete,
			Message:  fmt.Sprintf("%d tax form(s) need completion.", n),
		})
	}
	if n := countPayments(in.Payments, domain.PaymentPending); n > 0 {
		out = append(out, domain.Notification{
			Severity: domain.SeverityInfo,
			Category: domain.CategoryPaymentsPending,
			Message:  fmt.Sprintf("%d payment(s) pending.", n),
		})
	}
	if WithinReminderWindow(ref) {
		out = append(out, domain.Notification{
			Severity: domain.SeverityWarning,
			Category: domain.CategoryDeadlineReminder,
			Message:  fmt.Sprintf("Tax deadline in %d days - File by April 15th.", DaysUntilDeadline(ref)),
		})
	}

	return out
}

// countDocumentsClassified counts documents whose raw status classifies to
// the given derived status. Over the document vocabulary "warning" matches
// exactly the processing documents and "error" exactly the failed ones. The
// form and payment rules below must stay on raw statuses: draft and
// in_progress classify as neutral, and the warning class is wider than
// payment "pending".
func countDocumentsClassified(documents []domain.Document, status domain.DerivedStatus) int {
	n := 0
	for _, d := range documents {
		if domain.ClassifyStatus(string(d.Status)) == status {
			n++
		}
	}
	return n
}

func countIncompleteForms(forms []domain.TaxForm) int {
	n := 0
	for _, f := range forms {
		if f.Status == domain.FormDraft || f.Status == domain.FormInProgress {
			n++
		}
	}
	return n
}

func countPayments(payments []domain.Payment, status domain.PaymentStatus) int {
	n := 0
	for _, p := range payments {
		if p.Status == status {
			n++
		}
	}
	return n
}
