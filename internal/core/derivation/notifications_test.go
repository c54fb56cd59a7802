package derivation

import (
	"reflect"
	"testing"
	"time"

	"github.com/taxengine/dashboard/internal/core/domain"
)

func TestDeriveNotificationsFixedOrderScenario(t *testing.T) {
	// Reference date inside the reminder window (26 days out).
	ref := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Documents: []domain.Document{
			{ID: 1, Status: domain.DocumentProcessing},
			{ID: 2, Status: domain.DocumentError},
		},
		Forms: []domain.TaxForm{
			{ID: 1, Status: domain.FormDraft},
		},
		Payments: []domain.Payment{
			{ID: 1, Status: domain.PaymentPending, Amount: dec(t, "0")},
		},
	}

	got := DeriveNotifications(in, ref)
	want := []domain.Notification{
		{Severity: domain.SeverityInfo, Category: domain.CategoryDocumentsProcessing, Message: "1 document(s) are being processed."},
		{Severity: domain.SeverityError, Category: domain.CategoryDocumentsFailed, Message: "1 document(s) failed to process."},
		{Severity: domain.SeverityWarning, Category: domain.CategoryFormsIncomplete, Message: "1 tax form(s) need completion."},
		{Severity: domain.SeverityInfo, Category: domain.CategoryPaymentsPending, Message: "1 payment(s) pending."},
		{Severity: domain.SeverityWarning, Category: domain.CategoryDeadlineReminder, Message: "Tax deadline in 26 days - File by April 15th."},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d notifications, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDeriveNotificationsZeroCountsContributeNothing(t *testing.T) {
	ref := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC) // past deadline
	in := Inputs{
		Documents: []domain.Document{{ID: 1, Status: domain.DocumentProcessed}},
		Forms:     []domain.TaxForm{{ID: 1, Status: domain.FormFiled}},
		Payments:  []domain.Payment{{ID: 1, Status: domain.PaymentCompleted, Amount: dec(t, "10")}},
	}

	if got := DeriveNotifications(in, ref); len(got) != 0 {
		t.Fatalf("expected no notifications, got %+v", got)
	}
}

func TestDeriveNotificationsCountsAggregate(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Forms: []domain.TaxForm{
			{ID: 1, Status: domain.FormDraft},
			{ID: 2, Status: domain.FormInProgress},
			{ID: 3, Status: domain.FormCompleted},
		},
	}

	got := DeriveNotifications(in, ref)
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %+v", got)
	}
	if got[0].Category != domain.CategoryFormsIncomplete {
		t.Fatalf("unexpected category %s", got[0].Category)
	}
	if got[0].Message != "2 tax form(s) need completion." {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
}

func TestDeriveNotificationsDocumentRulesFollowClassifier(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Documents: []domain.Document{
			{ID: 1, Status: domain.DocumentProcessing}, // classifies warning
			{ID: 2, Status: domain.DocumentProcessing},
			{ID: 3, Status: domain.DocumentError}, // classifies error
			{ID: 4, Status: domain.DocumentProcessed},
			{ID: 5, Status: domain.DocumentUploaded},
		},
	}

	got := DeriveNotifications(in, ref)
	want := []domain.Notification{
		{Severity: domain.SeverityInfo, Category: domain.CategoryDocumentsProcessing, Message: "2 document(s) are being processed."},
		{Severity: domain.SeverityError, Category: domain.CategoryDocumentsFailed, Message: "1 document(s) failed to process."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("notifications mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestDeriveNotificationsUnknownStatusesAreIgnored(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Documents: []domain.Document{{ID: 1, Status: "PROCESSING"}}, // wrong case, no match
		Payments:  []domain.Payment{{ID: 1, Status: "on-hold", Amount: dec(t, "5")}},
	}

	if got := DeriveNotifications(in, ref); len(got) != 0 {
		t.Fatalf("expected malformed statuses to yield no notifications, got %+v", got)
	}
}
