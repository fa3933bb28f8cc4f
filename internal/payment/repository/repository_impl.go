package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/payment/domain"
	"github.com/smallbiznis/medicita/pkg/db/option"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.DoctorPayment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO doctor_payments (id, doctor_id, amount, method, reference, status, paid_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.DoctorID,
		payment.Amount,
		payment.Method,
		payment.Reference,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.DoctorPayment, error) {
	var payment domain.DoctorPayment
	err := db.WithContext(ctx).Raw(
		`SELECT id, doctor_id, amount, method, reference, status, paid_at, created_at, updated_at
		 FROM doctor_payments WHERE id = ?`,
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

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentFilter, page pagination.Pagination) ([]*domain.DoctorPayment, error) {
	var payments []*domain.DoctorPayment
	stmt := db.WithContext(ctx).Model(&domain.DoctorPayment{})
	if filter.DoctorID != "" {
		stmt = stmt.Where("doctor_id = ?", filter.DoctorID)
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

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, payment *domain.DoctorPayment) error {
	return db.WithContext(ctx).Exec(
		`UPDATE doctor_payments SET status = ?, paid_at = ?, updated_at = ? WHERE id = ?`,
		payment.Status,
		payment.PaidAt,
		payment.UpdatedAt,
		payment.ID,
	).Error
}
