// Package appointments implements the scheduling rules of the dental
// office dashboard: which dates may be offered, the fixed half-hour slot
// catalogue, and exact-match slot conflict detection.
package appointments

import (
	"time"
)

// horizonDays is how far ahead the booking form offers dates. Day 60 is
// still offerable, day 61 is not.
const horizonDays = 60

// Duration bounds for a single procedure, in minutes.
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 240
)

// TimeSlots returns the fixed catalogue of bookable start times: two
// half-hour bands, morning 08:00-11:30 and afternoon 14:00-17:30. The
// lunch hour is excluded by omission.
func TimeSlots() []string {
	return []string{
		"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isWeekend reports whether d falls on Saturday or Sunday.
func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsDateOfferable reports whether d may be offered for booking as of
// today: strictly after today's calendar date, a weekday, and no more
// than horizonDays ahead.
func IsDateOfferable(today, d time.Time) bool {
	base := startOfDay(today)
	day := startOfDay(d)
	if !day.After(base) {
		return false
	}
	if isWeekend(day) {
		return false
	}
	return !day.After(base.AddDate(0, 0, horizonDays))
}

// AvailableDates lists every offerable date in the booking window,
// ordered ascending.
func AvailableDates(today time.Time) []time.Time {
	base := startOfDay(today)
	dates := make([]time.Time, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		d := base.AddDate(0, 0, i)
		if !isWeekend(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// OccupiedTimes extracts the start time-of-day ("HH:MM") of every
// appointment still occupying its slot.
func OccupiedTimes(appts []Appointment) []string {
	var out []string
	for _, a := range appts {
		if a.Estado.IsActive() {
			out = append(out, a.FechaAgendada.Format("15:04"))
		}
	}
	return out
}

// IsSlotOccupied reports whether hora exactly matches an occupied start
// time. Matching is string equality at minute granularity: back-to-back
// appointments with different start times are never flagged, even when
// their durations would overlap.
func IsSlotOccupied(occupied []string, hora string) bool {
	for _, t := range occupied {
		if t == hora {
			return true
		}
	}
	return false
}
