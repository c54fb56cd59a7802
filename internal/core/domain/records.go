package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DocumentStatus string

const (
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentProcessing DocumentStatus = "processing"
	DocumentProcessed  DocumentStatus = "processed"
	DocumentError      DocumentStatus = "error"
)

// Document is a tax document record as owned by the Tax Engine platform.
// Records are produced upstream; this service only reads them.
type Document struct {
	ID           int64          `json:"id"`
	Filename     string         `json:"filename"`
	DocumentType string         `json:"document_type"`
	Status       DocumentStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

type FormStatus string

const (
	FormDraft      FormStatus = "draft"
	FormInProgress FormStatus = "in_progress"
	FormCompleted  FormStatus = "completed"
	FormFiled      FormStatus = "filed"
)

// TaxForm is a platform tax form. CalculatedTax is nil until the upstream
// tax-calculation service has populated the form; nil means "not yet
// calculated", not zero.
type TaxForm struct {
	ID            int64            `json:"id"`
	FormType      string           `json:"form_type"`
	TaxYear       int              `json:"tax_year"`
	Status        FormStatus       `json:"status"`
	CalculatedTax *decimal.Decimal `json:"calculated_tax,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

type PaymentType string

const (
	PaymentTypeTax      PaymentType = "tax_payment"
	PaymentTypePenalty  PaymentType = "penalty"
	PaymentTypeInterest PaymentType = "interest"
)

// Payment is a platform payment record. Only completed payments count toward
// amounts actually paid.
type Payment struct {
	ID              int64           `json:"id"`
	PaymentType     PaymentType     `json:"payment_type"`
	Amount          decimal.Decimal `json:"amount"`
	Status          PaymentStatus   `json:"status"`
	ReferenceNumber string          `json:"reference_number"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewForm is the payload for creating a tax form upstream.
type NewForm struct {
	FormType string `json:"form_type"`
	TaxYear  int    `json:"tax_year"`
}

// NewPayment is the payload for creating a payment upstream. FormID links the
// payment to a specific form when set.
type NewPayment struct {
	PaymentType PaymentType     `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	FormID      *int64          `json:"form_id,omitempty"`
}
