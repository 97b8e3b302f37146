package valuation

import (
	"time"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// AdvanceSchedule returns start advanced by count periods of the given
// frequency. Monthly and yearly arithmetic clamps to the last day of the
// target month (Jan 31 + 1 month = Feb 28/29), never rolling into the next
// month. Custom frequencies add count*customDays days.
func AdvanceSchedule(start time.Time, freq domain.Frequency, customDays, count int) time.Time {
	switch freq {
	case domain.FrequencyMonthly:
		return addMonthsClamped(start, count)
	case domain.FrequencyYearly:
		return addMonthsClamped(start, 12*count)
	case domain.FrequencyCustom:
		return start.AddDate(0, 0, count*customDays)
	}
	return start
}

// addMonthsClamped adds months keeping the day-of-month, clamped to the last
// day of the target month. time.AddDate is avoided here because it normalizes
// overflow days into the following month.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
