package guard

import (
	"errors"
	"testing"
	"time"

	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
)

func date(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func TestEnsureDoctorCanBeSuspended(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	today := date(2024, time.July, 7, caracas)
	past := date(2024, time.July, 6, time.UTC)
	future := date(2024, time.August, 6, time.UTC)
	sameDay := date(2024, time.July, 7, time.UTC)

	cases := []struct {
		name    string
		status  string
		next    *time.Time
		wantErr error
	}{
		{"nil date is delinquent", doctordomain.StatusActive, nil, nil},
		{"past date is delinquent", doctordomain.StatusActive, &past, nil},
		{"future date is not", doctordomain.StatusActive, &future, ErrDoctorNotDelinquent},
		{"same calendar day is not, even across locations", doctordomain.StatusActive, &sameDay, ErrDoctorNotDelinquent},
		{"inactive doctor", doctordomain.StatusInactive, nil, ErrDoctorNotActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := EnsureDoctorCanBeSuspended(tc.status, tc.next, today)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEnsureDoctorCanRollOver(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cycleEnd := date(2024, time.July, 6, caracas)
	anchored := date(2024, time.July, 6, time.UTC)
	other := date(2024, time.July, 5, time.UTC)

	if err := EnsureDoctorCanRollOver(doctordomain.StatusActive, &anchored, cycleEnd); err != nil {
		t.Fatalf("expected anchored doctor to roll over, got %v", err)
	}
	if err := EnsureDoctorCanRollOver(doctordomain.StatusActive, &other, cycleEnd); !errors.Is(err, ErrDoctorNotDue) {
		t.Fatalf("expected ErrDoctorNotDue, got %v", err)
	}
	if err := EnsureDoctorCanRollOver(doctordomain.StatusActive, nil, cycleEnd); !errors.Is(err, ErrDoctorNotDue) {
		t.Fatalf("expected ErrDoctorNotDue for nil date, got %v", err)
	}
	if err := EnsureDoctorCanRollOver(doctordomain.StatusInactive, &anchored, cycleEnd); !errors.Is(err, ErrDoctorNotActive) {
		t.Fatalf("expected ErrDoctorNotActive, got %v", err)
	}
}

func TestEnsureSellerCanAccrue(t *testing.T) {
	if err := EnsureSellerCanAccrue(sellerdomain.StatusActive); err != nil {
		t.Fatalf("expected active seller to accrue, got %v", err)
	}
	if err := EnsureSellerCanAccrue(sellerdomain.StatusInactive); !errors.Is(err, ErrSellerNotActive) {
		t.Fatalf("expected ErrSellerNotActive, got %v", err)
	}
}
