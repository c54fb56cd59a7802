package domain

import "github.com/shopspring/decimal"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// NotificationCategory identifies the rule that produced a notification. A
// single derivation emits at most one notification per category.
type NotificationCategory string

const (
	CategoryDocumentsProcessing NotificationCategory = "documents-processing"
	CategoryDocumentsFailed     NotificationCategory = "documents-failed"
	CategoryFormsIncomplete     NotificationCategory = "forms-incomplete"
	CategoryPaymentsPending     NotificationCategory = "payments-pending"
	CategoryDeadlineReminder    NotificationCategory = "deadline-reminder"
)

type Notification struct {
	Severity Severity             `json:"severity"`
	Category NotificationCategory `json:"category"`
	Message  string               `json:"message"`
}

// DerivationResult is the derived filing status for one user: overall
// completion, financial summary, and the ordered notification list.
//
// RemainingBalance is always exactly TotalTaxOwed minus TotalPayments; the
// sign carries meaning (positive = amount still due, negative = refund owed,
// zero = paid in full) and display rounding is left to the caller.
type DerivationResult struct {
	CompletionPercentage int             `json:"completion_percentage"`
	TotalTaxOwed         decimal.Decimal `json:"total_tax_owed"`
	TotalPayments        decimal.Decimal `json:"total_payments"`
	RemainingBalance     decimal.Decimal `json:"remaining_balance"`
	Notifications        []Notification  `json:"notifications"`
}
