package model

import "time"

// DateLayout is the date-only form used for completedDates and milestone targets
const DateLayout = "2006-01-02"

// DateKey returns the calendar day of t in its own location
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// NextDue advances from by one recurrence interval. Month and year steps follow
// calendar arithmetic, so Jan 31 + 1 month normalizes into March.
func NextDue(from time.Time, r RecurrenceType) time.Time {
	switch r {
	case RecurDaily:
		return from.AddDate(0, 0, 1)
	case RecurWeekly:
		return from.AddDate(0, 0, 7)
	case RecurMonthly:
		return from.AddDate(0, 1, 0)
	case RecurYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}
