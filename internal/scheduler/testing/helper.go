// internal/scheduler/testing/helper.go
package testing

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	"gorm.io/gorm"
)

// TimeAccelerator helps speed up billing cycles for testing
type TimeAccelerator struct {
	db *gorm.DB
}

func NewTimeAccelerator(db *gorm.DB) *TimeAccelerator {
	return &TimeAccelerator{db: db}
}

// LapseDoctor moves next_payment_date into the past so the suspension
// job picks the doctor up on its next eligible run
func (ta *TimeAccelerator) LapseDoctor(ctx context.Context, doctorID snowflake.ID) error {
	now := time.Now().UTC()
	return ta.db.WithContext(ctx).Exec(
		`UPDATE doctors
		 SET next_payment_date = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		now.AddDate(0, 0, -1),
		now,
		doctorID,
		doctordomain.StatusActive,
	).Error
}

// LapseAllActiveDoctors lapses every active doctor at once
func (ta *TimeAccelerator) LapseAllActiveDoctors(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	result := ta.db.WithContext(ctx).Exec(
		`UPDATE doctors
		 SET next_payment_date = ?, updated_at = ?
		 WHERE status = ? AND (next_payment_date IS NULL OR next_payment_date > ?)`,
		now.AddDate(0, 0, -1),
		now,
		doctordomain.StatusActive,
		now,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetDoctorAnchor allows a custom next payment date for testing
func (ta *TimeAccelerator) SetDoctorAnchor(ctx context.Context, doctorID snowflake.ID, nextPaymentDate time.Time) error {
	return ta.db.WithContext(ctx).Exec(
		`UPDATE doctors
		 SET next_payment_date = ?, updated_at = ?
		 WHERE id = ?`,
		nextPaymentDate,
		time.Now().UTC(),
		doctorID,
	).Error
}

// DoctorInfo shows the doctor's billing position for debugging
type DoctorInfo struct {
	ID                 snowflake.ID
	Status             string
	SubscriptionStatus string
	NextPaymentDate    *time.Time
	DaysUntilDue       int
	Delinquent         bool
}

func (ta *TimeAccelerator) GetDoctorInfo(ctx context.Context, doctorID snowflake.ID) (*DoctorInfo, error) {
	var doctor struct {
		ID                 snowflake.ID
		Status             string
		SubscriptionStatus string
		NextPaymentDate    *time.Time
	}

	err := ta.db.WithContext(ctx).Raw(
		`SELECT id, status, subscription_status, next_payment_date
		 FROM doctors
		 WHERE id = ?`,
		doctorID,
	).Scan(&doctor).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	info := &DoctorInfo{
		ID:                 doctor.ID,
		Status:             doctor.Status,
		SubscriptionStatus: doctor.SubscriptionStatus,
		NextPaymentDate:    doctor.NextPaymentDate,
	}
	if doctor.NextPaymentDate != nil {
		info.DaysUntilDue = int(doctor.NextPaymentDate.Sub(now).Hours() / 24)
		info.Delinquent = doctor.NextPaymentDate.Before(now)
	} else {
		info.Delinquent = doctor.Status == doctordomain.StatusActive
	}

	return info, nil
}

// ResetJobClaims clears day claims so jobs can re-run (dangerous, for
// testing only!)
func (ta *TimeAccelerator) ResetJobClaims(ctx context.Context, job string) error {
	return ta.db.WithContext(ctx).Exec(
		`DELETE FROM scheduler_job_runs WHERE job = ?`,
		job,
	).Error
}
