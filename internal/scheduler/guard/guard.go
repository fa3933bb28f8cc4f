package guard

import (
	"errors"
	"time"

	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
)

var (
	ErrDoctorNotActive     = errors.New("doctor_not_active")
	ErrDoctorNotDelinquent = errors.New("doctor_not_delinquent")
	ErrDoctorNotDue        = errors.New("doctor_not_due")
	ErrSellerNotActive     = errors.New("seller_not_active")
)

// EnsureDoctorCanBeSuspended verifies the delinquency invariant before a
// doctor is deactivated. A nil next payment date counts as delinquent.
// Dates are compared by calendar day because next_payment_date is a date
// column and may scan back in a different location than business time.
func EnsureDoctorCanBeSuspended(status string, nextPaymentDate *time.Time, today time.Time) error {
	if status != doctordomain.StatusActive {
		return ErrDoctorNotActive
	}
	if nextPaymentDate == nil {
		return nil
	}
	if compareDates(*nextPaymentDate, today) >= 0 {
		return ErrDoctorNotDelinquent
	}
	return nil
}

// EnsureDoctorCanRollOver verifies a doctor is anchored on the cycle end
// that just closed before its payment date is advanced.
func EnsureDoctorCanRollOver(status string, nextPaymentDate *time.Time, cycleEnd time.Time) error {
	if status != doctordomain.StatusActive {
		return ErrDoctorNotActive
	}
	if nextPaymentDate == nil || compareDates(*nextPaymentDate, cycleEnd) != 0 {
		return ErrDoctorNotDue
	}
	return nil
}

func compareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return compareInts(ay, by)
	case am != bm:
		return compareInts(int(am), int(bm))
	default:
		return compareInts(ad, bd)
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// EnsureSellerCanAccrue verifies a seller is eligible to receive a new
// commission payment.
func EnsureSellerCanAccrue(status string) error {
	if status != sellerdomain.StatusActive {
		return ErrSellerNotActive
	}
	return nil
}
