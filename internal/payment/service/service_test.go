package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	doctorrepository "github.com/smallbiznis/medicita/internal/doctor/repository"
	"github.com/smallbiznis/medicita/internal/payment/domain"
	"github.com/smallbiznis/medicita/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newPaymentTestService(t *testing.T, now time.Time) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&doctordomain.Doctor{}, &domain.DoctorPayment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Config:     config.Config{Timezone: "America/Caracas"},
		Clock:      clock.NewFakeClock(now),
		Repo:       repository.Provide(),
		DoctorRepo: doctorrepository.Provide(),
	}).(*Service)

	return svc, db, node
}

func seedTestDoctor(t *testing.T, db *gorm.DB, node *snowflake.Node, next *time.Time, status string) snowflake.ID {
	t.Helper()

	now := time.Now().UTC()
	subscription := doctordomain.SubscriptionPending
	if status == doctordomain.StatusActive && next != nil {
		subscription = doctordomain.SubscriptionActive
	}
	doctor := doctordomain.Doctor{
		ID:                 node.Generate(),
		Name:               "Dra. Marin",
		Email:              "marin@example.com",
		City:               "Caracas",
		Status:             status,
		SubscriptionStatus: subscription,
		NextPaymentDate:    next,
		Metadata:           datatypes.JSONMap{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, db.Create(&doctor).Error)
	return doctor.ID
}

func TestApproveActivatesDoctorAndSetsAnchor(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	now := time.Date(2024, time.July, 10, 9, 30, 0, 0, caracas)
	svc, db, node := newPaymentTestService(t, now)
	ctx := context.Background()

	// Doctor has never paid: inactive profile, no payment anchor.
	doctorID := seedTestDoctor(t, db, node, nil, doctordomain.StatusInactive)

	created, err := svc.Create(ctx, domain.CreatePaymentRequest{
		DoctorID: doctorID.String(),
		Amount:   50,
		Method:   "transferencia",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)

	approved, err := svc.Approve(ctx, domain.ReviewPaymentRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, approved.Status)
	require.NotNil(t, approved.PaidAt)

	var doctor doctordomain.Doctor
	require.NoError(t, db.First(&doctor, "id = ?", doctorID).Error)
	assert.Equal(t, doctordomain.StatusActive, doctor.Status)
	assert.Equal(t, doctordomain.SubscriptionActive, doctor.SubscriptionStatus)

	// Lapsed doctors restart the cycle from today, one month out.
	require.NotNil(t, doctor.NextPaymentDate)
	y, m, d := doctor.NextPaymentDate.In(caracas).Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.August, m)
	assert.Equal(t, 10, d)
}

func TestApproveKeepsFutureAnchorAndClampsMonthEnd(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, caracas)
	svc, db, node := newPaymentTestService(t, now)
	ctx := context.Background()

	anchor := time.Date(2024, time.January, 31, 0, 0, 0, 0, caracas)
	doctorID := seedTestDoctor(t, db, node, &anchor, doctordomain.StatusActive)

	created, err := svc.Create(ctx, domain.CreatePaymentRequest{
		DoctorID: doctorID.String(),
		Amount:   50,
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, domain.ReviewPaymentRequest{ID: created.ID.String()})
	require.NoError(t, err)

	var doctor doctordomain.Doctor
	require.NoError(t, db.First(&doctor, "id = ?", doctorID).Error)
	require.NotNil(t, doctor.NextPaymentDate)

	// January 31 plus one month lands on leap-day February 29.
	y, m, d := doctor.NextPaymentDate.In(caracas).Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.February, m)
	assert.Equal(t, 29, d)
}

func TestApproveTwiceReturnsAlreadyReviewed(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	svc, db, node := newPaymentTestService(t, time.Date(2024, time.July, 10, 9, 0, 0, 0, caracas))
	ctx := context.Background()

	doctorID := seedTestDoctor(t, db, node, nil, doctordomain.StatusInactive)
	created, err := svc.Create(ctx, domain.CreatePaymentRequest{DoctorID: doctorID.String(), Amount: 50})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, domain.ReviewPaymentRequest{ID: created.ID.String()})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, domain.ReviewPaymentRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	_, err = svc.Reject(ctx, domain.ReviewPaymentRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
}

func TestRejectLeavesDoctorUntouched(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	svc, db, node := newPaymentTestService(t, time.Date(2024, time.July, 10, 9, 0, 0, 0, caracas))
	ctx := context.Background()

	doctorID := seedTestDoctor(t, db, node, nil, doctordomain.StatusInactive)
	created, err := svc.Create(ctx, domain.CreatePaymentRequest{DoctorID: doctorID.String(), Amount: 50})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, domain.ReviewPaymentRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.PaidAt)

	var doctor doctordomain.Doctor
	require.NoError(t, db.First(&doctor, "id = ?", doctorID).Error)
	assert.Equal(t, doctordomain.StatusInactive, doctor.Status)
	assert.Nil(t, doctor.NextPaymentDate)
}

func TestCreateValidatesInput(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	svc, db, node := newPaymentTestService(t, time.Date(2024, time.July, 10, 9, 0, 0, 0, caracas))
	ctx := context.Background()

	_, err = svc.Create(ctx, domain.CreatePaymentRequest{DoctorID: "not-a-number", Amount: 50})
	assert.ErrorIs(t, err, domain.ErrInvalidDoctor)

	doctorID := seedTestDoctor(t, db, node, nil, doctordomain.StatusInactive)
	_, err = svc.Create(ctx, domain.CreatePaymentRequest{DoctorID: doctorID.String(), Amount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreatePaymentRequest{DoctorID: node.Generate().String(), Amount: 50})
	assert.ErrorIs(t, err, domain.ErrInvalidDoctor)
}
