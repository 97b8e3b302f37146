package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

func TestAdvanceSchedule_Monthly(t *testing.T) {
	next := AdvanceSchedule(date(2025, time.March, 15), domain.FrequencyMonthly, 0, 1)
	assert.Equal(t, date(2025, time.April, 15), next)

	next = AdvanceSchedule(date(2025, time.March, 15), domain.FrequencyMonthly, 0, 3)
	assert.Equal(t, date(2025, time.June, 15), next)
}

func TestAdvanceSchedule_MonthEndClamping(t *testing.T) {
	// Jan 31 + 1 month clamps to the last day of February
	next := AdvanceSchedule(date(2025, time.January, 31), domain.FrequencyMonthly, 0, 1)
	assert.Equal(t, date(2025, time.February, 28), next)

	// leap year
	next = AdvanceSchedule(date(2024, time.January, 31), domain.FrequencyMonthly, 0, 1)
	assert.Equal(t, date(2024, time.February, 29), next)

	// Mar 31 + 1 month clamps to Apr 30
	next = AdvanceSchedule(date(2025, time.March, 31), domain.FrequencyMonthly, 0, 1)
	assert.Equal(t, date(2025, time.April, 30), next)

	// clamping applies to the final target month only: Jan 31 + 2 = Mar 31
	next = AdvanceSchedule(date(2025, time.January, 31), domain.FrequencyMonthly, 0, 2)
	assert.Equal(t, date(2025, time.March, 31), next)
}

func TestAdvanceSchedule_Yearly(t *testing.T) {
	next := AdvanceSchedule(date(2024, time.June, 10), domain.FrequencyYearly, 0, 2)
	assert.Equal(t, date(2026, time.June, 10), next)

	// Feb 29 + 1 year clamps to Feb 28
	next = AdvanceSchedule(date(2024, time.February, 29), domain.FrequencyYearly, 0, 1)
	assert.Equal(t, date(2025, time.February, 28), next)
}

func TestAdvanceSchedule_CustomDays(t *testing.T) {
	next := AdvanceSchedule(date(2025, time.January, 1), domain.FrequencyCustom, 10, 3)
	assert.Equal(t, date(2025, time.January, 31), next)
}

func TestAdvanceSchedule_ZeroPeriods(t *testing.T) {
	start := date(2025, time.January, 31)
	assert.Equal(t, start, AdvanceSchedule(start, domain.FrequencyMonthly, 0, 0))
}
