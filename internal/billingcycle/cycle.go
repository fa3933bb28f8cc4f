// Package billingcycle implements the date arithmetic behind doctor
// subscription cycles. All functions are pure so jobs and handlers can
// share them without caring about wall-clock time.
package billingcycle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCycleEndDay reports a configured cycle end day outside 1..31.
var ErrInvalidCycleEndDay = errors.New("invalid_cycle_end_day")

// ValidateCycleEndDay rejects end days that can never name a calendar day.
func ValidateCycleEndDay(endDay int) error {
	if endDay < 1 || endDay > 31 {
		return fmt.Errorf("%w: %d", ErrInvalidCycleEndDay, endDay)
	}
	return nil
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsDayAfterCycleEnd reports whether today is the first day after the
// billing cycle that closes on endDay. When endDay exceeds the length of
// a month the cycle closes on that month's last day, so the day after
// lands on the 1st of the following month.
func IsDayAfterCycleEnd(today time.Time, endDay int) (bool, error) {
	if err := ValidateCycleEndDay(endDay); err != nil {
		return false, err
	}

	if today.Day() == endDay+1 && endDay < LastDayOfMonth(today.Year(), today.Month()) {
		return true, nil
	}

	if today.Day() == 1 {
		prev := today.AddDate(0, 0, -1)
		if endDay >= LastDayOfMonth(prev.Year(), prev.Month()) {
			return true, nil
		}
	}

	return false, nil
}

// AddMonthClamped advances t by one month, clamping the day to the target
// month's length. Jan 31 becomes Feb 28 (or 29 in leap years).
func AddMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	anchor := time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
	if last := LastDayOfMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	hour, min, sec := t.Clock()
	return time.Date(anchor.Year(), anchor.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// CycleEndDate resolves the cycle end date inside the given month. The
// second return value is false when endDay exceeds the month's length.
func CycleEndDate(year int, month time.Month, endDay int, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if endDay < 1 || endDay > LastDayOfMonth(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, month, endDay, 0, 0, 0, 0, loc), true
}

// Midnight truncates t to the start of its day in its own location.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// PeriodLabel renders the Spanish month plus year label used on seller
// payments, e.g. "Julio 2024".
func PeriodLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}

// SamePeriod compares period labels ignoring case and surrounding space.
func SamePeriod(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
