package derivation

import (
	"math"
	"time"
)

// The filing deadline is April 15 of the reference year, with no weekend or
// holiday adjustment.
const (
	deadlineMonth = time.April
	deadlineDay   = 15

	reminderWindowDays = 30
)

// FilingDeadline returns midnight of April 15 in the reference date's year
// and location.
func FilingDeadline(ref time.Time) time.Time {
	return time.Date(ref.Year(), deadlineMonth, deadlineDay, 0, 0, 0, 0, ref.Location())
}

// DaysUntilDeadline counts calendar days from the reference instant to the
// filing deadline, rounding partial days up. The result is negative once the
// deadline has passed; the deadline never rolls over to the next year.
func DaysUntilDeadline(ref time.Time) int {
	diff := FilingDeadline(ref).Sub(ref)
	return int(math.Ceil(diff.Hours() / 24))
}

// WithinReminderWindow reports whether the deadline has not yet passed and is
// at most 30 days away.
func WithinReminderWindow(ref time.Time) bool {
	days := DaysUntilDeadline(ref)
	return days >= 0 && days <= reminderWindowDays
}
