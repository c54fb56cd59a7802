package derivation

import (
	"testing"
	"time"
)

func TestDaysUntilDeadline(t *testing.T) {
	cases := []struct {
		name     string
		ref      time.Time
		want     int
		inWindow bool
	}{
		{
			name:     "late march is 26 days out",
			ref:      time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
			want:     26,
			inWindow: true,
		},
		{
			name:     "partial day rounds up",
			ref:      time.Date(2024, time.March, 20, 18, 30, 0, 0, time.UTC),
			want:     26,
			inWindow: true,
		},
		{
			name:     "deadline day counts as zero days left",
			ref:      time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC),
			want:     0,
			inWindow: true,
		},
		{
			name:     "past deadline goes negative without rollover",
			ref:      time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			want:     -16,
			inWindow: false,
		},
		{
			name:     "early january is outside the window",
			ref:      time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
			want:     104,
			inWindow: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntilDeadline(tc.ref); got != tc.want {
				t.Fatalf("DaysUntilDeadline(%s) = %d, want %d", tc.ref, got, tc.want)
			}
			if got := WithinReminderWindow(tc.ref); got != tc.inWindow {
				t.Fatalf("WithinReminderWindow(%s) = %v, want %v", tc.ref, got, tc.inWindow)
			}
		})
	}
}

func TestFilingDeadlineKeepsReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ref := time.Date(2025, time.February, 1, 12, 0, 0, 0, loc)

	deadline := FilingDeadline(ref)
	if deadline.Location() != loc {
		t.Fatalf("expected deadline in reference location, got %v", deadline.Location())
	}
	if deadline.Year() != 2025 || deadline.Month() != time.April || deadline.Day() != 15 {
		t.Fatalf("unexpected deadline date: %s", deadline)
	}
}
