package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	"github.com/smallbiznis/medicita/internal/sellerpayment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSellerPaymentTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SellerPayment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2024, time.August, 7, 10, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	}).(*Service)

	return svc, db, node
}

func seedCommission(t *testing.T, db *gorm.DB, node *snowflake.Node, status string) domain.SellerPayment {
	t.Helper()

	now := time.Now().UTC()
	payment := domain.SellerPayment{
		ID:        node.Generate(),
		SellerID:  node.Generate(),
		Amount:    25,
		Period:    "Julio 2024",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func TestMarkPaidRecordsProof(t *testing.T) {
	svc, db, node := newSellerPaymentTestService(t)
	ctx := context.Background()

	pending := seedCommission(t, db, node, domain.StatusPending)

	paid, err := svc.MarkPaid(ctx, domain.MarkPaidRequest{
		ID:            pending.ID.String(),
		ProofURL:      "https://proofs.example.com/123.png",
		TransactionID: "TX-123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
	assert.Equal(t, "https://proofs.example.com/123.png", paid.ProofURL)
	assert.Equal(t, "TX-123", paid.TransactionID)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: pending.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, db, node := newSellerPaymentTestService(t)
	ctx := context.Background()

	pending := seedCommission(t, db, node, domain.StatusPending)

	first, err := svc.MarkRead(ctx, domain.MarkReadRequest{ID: pending.ID.String()})
	require.NoError(t, err)
	assert.True(t, first.Read)

	again, err := svc.MarkRead(ctx, domain.MarkReadRequest{ID: pending.ID.String()})
	require.NoError(t, err)
	assert.True(t, again.Read)
}

func TestGetReturnsCommission(t *testing.T) {
	svc, db, node := newSellerPaymentTestService(t)
	ctx := context.Background()

	pending := seedCommission(t, db, node, domain.StatusPending)

	got, err := svc.Get(ctx, domain.GetSellerPaymentRequest{ID: pending.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
	assert.Equal(t, "Julio 2024", got.Period)

	_, err = svc.Get(ctx, domain.GetSellerPaymentRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkPaidUnknownID(t *testing.T) {
	svc, _, node := newSellerPaymentTestService(t)
	ctx := context.Background()

	_, err := svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: "garbage"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
