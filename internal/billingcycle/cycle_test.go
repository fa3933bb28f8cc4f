package billingcycle

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsDayAfterCycleEnd(t *testing.T) {
	cases := []struct {
		name   string
		today  time.Time
		endDay int
		want   bool
	}{
		{"mid_month_day_after", date(2024, time.July, 16), 15, true},
		{"mid_month_same_day", date(2024, time.July, 15), 15, false},
		{"mid_month_two_after", date(2024, time.July, 17), 15, false},
		{"end_31_july_first_of_august", date(2024, time.August, 1), 31, true},
		{"end_31_mid_august", date(2024, time.August, 2), 31, false},
		{"end_31_first_of_october", date(2024, time.October, 1), 31, true},
		{"end_30_first_of_october", date(2024, time.October, 1), 30, true},
		{"end_30_october_31", date(2024, time.October, 31), 30, true},
		{"end_30_first_of_november", date(2024, time.November, 1), 30, false},
		{"end_28_march_1_leap", date(2024, time.March, 1), 28, false},
		{"end_29_march_1_leap", date(2024, time.March, 1), 29, true},
		{"end_29_feb_leap_day_after", date(2024, time.February, 29), 28, true},
		{"end_28_march_1_non_leap", date(2023, time.March, 1), 28, true},
		{"end_31_jan_1_year_rollover", date(2025, time.January, 1), 31, true},
		{"end_30_jan_1_year_rollover", date(2025, time.January, 1), 30, false},
		{"end_1_second_of_month", date(2024, time.July, 2), 1, true},
		{"end_1_first_of_month", date(2024, time.July, 1), 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsDayAfterCycleEnd(tc.today, tc.endDay)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IsDayAfterCycleEnd(%v, %d) = %v, want %v", tc.today, tc.endDay, got, tc.want)
			}
		})
	}
}

func TestIsDayAfterCycleEndRejectsInvalidDay(t *testing.T) {
	for _, endDay := range []int{0, -1, 32, 100} {
		if _, err := IsDayAfterCycleEnd(date(2024, time.July, 1), endDay); !errors.Is(err, ErrInvalidCycleEndDay) {
			t.Fatalf("expected ErrInvalidCycleEndDay for %d, got %v", endDay, err)
		}
	}
}

func TestIsDayAfterCycleEndFiresOncePerCycle(t *testing.T) {
	// Twelve cycles close inside any calendar year, so the trigger must
	// fire exactly twelve times regardless of the configured end day.
	for endDay := 1; endDay <= 31; endDay++ {
		fired := 0
		for day := date(2024, time.January, 1); day.Year() == 2024; day = day.AddDate(0, 0, 1) {
			ok, err := IsDayAfterCycleEnd(day, endDay)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok {
				fired++
			}
		}
		if fired != 12 {
			t.Fatalf("endDay %d fired %d times in 2024, want 12", endDay, fired)
		}
	}
}

func TestAddMonthClamped(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"plain", date(2024, time.March, 15), date(2024, time.April, 15)},
		{"jan_31_leap", date(2024, time.January, 31), date(2024, time.February, 29)},
		{"jan_31_non_leap", date(2023, time.January, 31), date(2023, time.February, 28)},
		{"march_31_to_april_30", date(2024, time.March, 31), date(2024, time.April, 30)},
		{"december_year_rollover", date(2024, time.December, 31), date(2025, time.January, 31)},
		{"feb_29_to_march_29", date(2024, time.February, 29), date(2024, time.March, 29)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddMonthClamped(tc.in); !got.Equal(tc.want) {
				t.Fatalf("AddMonthClamped(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCycleEndDate(t *testing.T) {
	if _, ok := CycleEndDate(2023, time.February, 31, time.UTC); ok {
		t.Fatalf("expected no cycle end date for Feb 31")
	}
	got, ok := CycleEndDate(2024, time.July, 31, time.UTC)
	if !ok || !got.Equal(date(2024, time.July, 31)) {
		t.Fatalf("CycleEndDate = %v (%v)", got, ok)
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := PeriodLabel(date(2024, time.July, 10)); got != "Julio 2024" {
		t.Fatalf("PeriodLabel = %q", got)
	}
	if got := PeriodLabel(date(2025, time.January, 1)); got != "Enero 2025" {
		t.Fatalf("PeriodLabel = %q", got)
	}
}

func TestSamePeriod(t *testing.T) {
	if !SamePeriod("Julio 2024", "julio 2024") {
		t.Fatalf("expected case-insensitive match")
	}
	if !SamePeriod(" Julio 2024 ", "JULIO 2024") {
		t.Fatalf("expected trimmed match")
	}
	if SamePeriod("Julio 2024", "Junio 2024") {
		t.Fatalf("expected mismatch")
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if got := LastDayOfMonth(2024, time.February); got != 29 {
		t.Fatalf("leap February = %d", got)
	}
	if got := LastDayOfMonth(2023, time.February); got != 28 {
		t.Fatalf("February = %d", got)
	}
	if got := LastDayOfMonth(2024, time.December); got != 31 {
		t.Fatalf("December = %d", got)
	}
}
