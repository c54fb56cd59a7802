package domain

// DerivedStatus is the four-way semantic classification of any record's raw
// status string, shared across documents, forms, and payments.
type DerivedStatus string

const (
	StatusSuccess DerivedStatus = "success"
	StatusWarning DerivedStatus = "warning"
	StatusError   DerivedStatus = "error"
	StatusNeutral DerivedStatus = "neutral"
)

// ClassifyStatus maps a raw status string to its DerivedStatus. The match is
// exact and case-sensitive against the canonical lowercase status vocabulary;
// anything unrecognized (including draft and cancelled) classifies as neutral,
// so the function is total and never fails on malformed input.
func ClassifyStatus(raw string) DerivedStatus {
	switch raw {
	case string(PaymentCompleted), string(DocumentProcessed), string(FormFiled):
		return StatusSuccess
	case string(DocumentProcessing), string(PaymentPending):
		return StatusWarning
	case string(DocumentError), string(PaymentFailed):
		return StatusError
	default:
		return StatusNeutral
	}
}
