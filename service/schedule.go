package service

import (
	"time"

	"github.com/hornetmadness/MyBudget/models"
)

// The schedule functions are the one place recurrence math lives.
// Everything works on whole days in UTC: inputs are truncated to
// midnight and ranges are inclusive on both ends.
//
// Month-based frequencies never drift. A monthly anchor of Jan 31
// produces Feb 28 (29 in leap years) and then Mar 31 again, because
// each occurrence is derived from the anchor, not from the previous
// occurrence.

// maxOccurrenceSteps caps every schedule walk so a bad anchor can
// never loop forever.
const maxOccurrenceSteps = 5000

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped shifts the anchor by n months keeping its day of
// month, clamped to the target month's length.
func addMonthsClamped(anchor time.Time, n int) time.Time {
	months := int(anchor.Month()) - 1 + n
	year := anchor.Year() + months/12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := time.Month(months + 1)
	day := anchor.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// addYearsClamped shifts the anchor by n years, clamping Feb 29 to
// Feb 28 in non-leap years.
func addYearsClamped(anchor time.Time, n int) time.Time {
	year := anchor.Year() + n
	day := anchor.Day()
	if last := daysInMonth(year, anchor.Month()); day > last {
		day = last
	}
	return time.Date(year, anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

// bimonthlyAnchorOnOrAfter returns the first 1st-or-15th on or after t.
func bimonthlyAnchorOnOrAfter(t time.Time) time.Time {
	t = DateOnly(t)
	switch {
	case t.Day() == 1 || t.Day() == 15:
		return t
	case t.Day() < 15:
		return time.Date(t.Year(), t.Month(), 15, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
}

func nextBimonthlyAnchor(cur time.Time) time.Time {
	if cur.Day() == 1 {
		return time.Date(cur.Year(), cur.Month(), 15, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// OccurrencesInRange returns every date the schedule fires within the
// inclusive range, in order. The anchor is the first occurrence of
// every frequency except bimonthly, which snaps to 1st/15th anchors,
// and always, which has no discrete dates at all.
func OccurrencesInRange(freq models.Frequency, start, rangeStart, rangeEnd time.Time) []time.Time {
	start = DateOnly(start)
	rangeStart = DateOnly(rangeStart)
	rangeEnd = DateOnly(rangeEnd)

	var out []time.Time
	if rangeEnd.Before(rangeStart) {
		return out
	}

	switch freq {
	case models.FrequencyAlways:
		return out

	case models.FrequencyOnce:
		if !start.Before(rangeStart) && !start.After(rangeEnd) {
			out = append(out, start)
		}
		return out

	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyBiweekly:
		step := 1
		switch freq {
		case models.FrequencyWeekly:
			step = 7
		case models.FrequencyBiweekly:
			step = 14
		}
		cur := start
		if cur.Before(rangeStart) {
			days := int(rangeStart.Sub(cur).Hours() / 24)
			cur = cur.AddDate(0, 0, (days/step)*step)
			for cur.Before(rangeStart) {
				cur = cur.AddDate(0, 0, step)
			}
		}
		for i := 0; i < maxOccurrenceSteps && !cur.After(rangeEnd); i++ {
			out = append(out, cur)
			cur = cur.AddDate(0, 0, step)
		}
		return out

	case models.FrequencyMonthly:
		n := (rangeStart.Year()-start.Year())*12 + int(rangeStart.Month()) - int(start.Month()) - 1
		if n < 0 {
			n = 0
		}
		for i := 0; i < maxOccurrenceSteps; i, n = i+1, n+1 {
			occ := addMonthsClamped(start, n)
			if occ.After(rangeEnd) {
				break
			}
			if !occ.Before(rangeStart) {
				out = append(out, occ)
			}
		}
		return out

	case models.FrequencyYearly:
		n := rangeStart.Year() - start.Year() - 1
		if n < 0 {
			n = 0
		}
		for i := 0; i < maxOccurrenceSteps; i, n = i+1, n+1 {
			occ := addYearsClamped(start, n)
			if occ.After(rangeEnd) {
				break
			}
			if !occ.Before(rangeStart) {
				out = append(out, occ)
			}
		}
		return out

	case models.FrequencyBimonthly:
		cur := bimonthlyAnchorOnOrAfter(start)
		for i := 0; i < maxOccurrenceSteps && !cur.After(rangeEnd); i++ {
			if !cur.Before(rangeStart) {
				out = append(out, cur)
			}
			cur = nextBimonthlyAnchor(cur)
		}
		return out
	}

	return out
}

// FirstOccurrenceIn returns the earliest occurrence within the
// inclusive range, if any.
func FirstOccurrenceIn(freq models.Frequency, start, rangeStart, rangeEnd time.Time) (time.Time, bool) {
	occs := OccurrencesInRange(freq, start, rangeStart, rangeEnd)
	if len(occs) == 0 {
		return time.Time{}, false
	}
	return occs[0], true
}

// NextOccurrence returns the first date strictly after the given day on
// which the schedule fires. Always never fires on a discrete date and a
// spent once-schedule has no next date.
func NextOccurrence(freq models.Frequency, start, after time.Time) (time.Time, bool) {
	after = DateOnly(after)
	switch freq {
	case models.FrequencyAlways:
		return time.Time{}, false
	case models.FrequencyOnce:
		s := DateOnly(start)
		if s.After(after) {
			return s, true
		}
		return time.Time{}, false
	}
	// two years bounds the gap for even the sparsest schedule
	from := after.AddDate(0, 0, 1)
	return FirstOccurrenceIn(freq, start, from, from.AddDate(2, 0, 0))
}

// IsValidDueDate reports whether candidate falls exactly on the
// schedule. Always-frequency accepts any date.
func IsValidDueDate(freq models.Frequency, start, candidate time.Time) bool {
	if freq == models.FrequencyAlways {
		return true
	}
	candidate = DateOnly(candidate)
	return len(OccurrencesInRange(freq, start, candidate, candidate)) == 1
}
