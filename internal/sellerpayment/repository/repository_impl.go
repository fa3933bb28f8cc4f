package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	"github.com/smallbiznis/medicita/pkg/db/option"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.SellerPayment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO seller_payments (id, seller_id, amount, period, included_doctors, status, proof_url, transaction_id, read, paid_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.SellerID,
		payment.Amount,
		payment.Period,
		payment.IncludedDoctors,
		payment.Status,
		payment.ProofURL,
		payment.TransactionID,
		payment.Read,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SellerPayment, error) {
	var payment domain.SellerPayment
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, amount, period, included_doctors, status, proof_url, transaction_id, read, paid_at, created_at, updated_at
		 FROM seller_payments WHERE id = ?`,
		id,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSellerPaymentFilter, page pagination.Pagination) ([]*domain.SellerPayment, error) {
	var payments []*domain.SellerPayment
	stmt := db.WithContext(ctx).Model(&domain.SellerPayment{})
	if filter.SellerID != "" {
		stmt = stmt.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, payment *domain.SellerPayment) error {
	return db.WithContext(ctx).Exec(
		`UPDATE seller_payments
		 SET amount = ?, period = ?, status = ?, proof_url = ?, transaction_id = ?, read = ?, paid_at = ?, updated_at = ?
		 WHERE id = ?`,
		payment.Amount,
		payment.Period,
		payment.Status,
		payment.ProofURL,
		payment.TransactionID,
		payment.Read,
		payment.PaidAt,
		payment.UpdatedAt,
		payment.ID,
	).Error
}

func (r *repo) FindPendingForPeriod(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, period string) (*domain.SellerPayment, error) {
	var payment domain.SellerPayment
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, amount, period, included_doctors, status, proof_url, transaction_id, read, paid_at, created_at, updated_at
		 FROM seller_payments
		 WHERE seller_id = ? AND LOWER(period) = LOWER(?) AND status = ?
		 LIMIT 1`,
		sellerID,
		strings.TrimSpace(period),
		domain.StatusPending,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}
