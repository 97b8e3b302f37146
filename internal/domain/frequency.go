package domain

// Frequency represents how often a scheduled amount recurs
type Frequency string

const (
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
	FrequencyCustom  Frequency = "CUSTOM"
)

// Valid reports whether the frequency is one of the known values.
// customDays must be positive when the frequency is CUSTOM and is ignored
// otherwise.
func (f Frequency) Valid(customDays int) bool {
	switch f {
	case FrequencyMonthly, FrequencyYearly:
		return true
	case FrequencyCustom:
		return customDays > 0
	}
	return false
}
