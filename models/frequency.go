package models

// Frequency is how often a bill or income repeats, anchored at the
// record's start_freq date.
type Frequency string

const (
	FrequencyAlways    Frequency = "always"
	FrequencyOnce      Frequency = "once"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyBimonthly Frequency = "bimonthly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyYearly    Frequency = "yearly"
)

// Frequencies lists every valid frequency in display order.
func Frequencies() []Frequency {
	return []Frequency{
		FrequencyAlways,
		FrequencyOnce,
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyBiweekly,
		FrequencyBimonthly,
		FrequencyMonthly,
		FrequencyYearly,
	}
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyAlways, FrequencyOnce, FrequencyDaily, FrequencyWeekly,
		FrequencyBiweekly, FrequencyBimonthly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}
