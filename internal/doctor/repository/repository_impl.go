package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/doctor/domain"
	paymentdomain "github.com/smallbiznis/medicita/internal/payment/domain"
	"github.com/smallbiznis/medicita/pkg/db/option"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doctor *domain.Doctor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO doctors (id, seller_id, name, email, city, specialty, status, subscription_status, next_payment_date, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doctor.ID,
		doctor.SellerID,
		doctor.Name,
		doctor.Email,
		doctor.City,
		doctor.Specialty,
		doctor.Status,
		doctor.SubscriptionStatus,
		doctor.NextPaymentDate,
		doctor.Metadata,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, name, email, city, specialty, status, subscription_status, next_payment_date, metadata, created_at, updated_at
		 FROM doctors WHERE id = ?`,
		id,
	).Scan(&doctor).Error
	if err != nil {
		return nil, err
	}
	if doctor.ID == 0 {
		return nil, nil
	}
	return &doctor, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDoctorFilter, page pagination.Pagination) ([]*domain.Doctor, error) {
	var doctors []*domain.Doctor
	stmt := db.WithContext(ctx).Model(&domain.Doctor{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		stmt = stmt.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	if filter.SellerID != "" {
		stmt = stmt.Where("seller_id = ?", filter.SellerID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, doctor *domain.Doctor) error {
	return db.WithContext(ctx).Exec(
		`UPDATE doctors
		 SET seller_id = ?, name = ?, email = ?, city = ?, specialty = ?, status = ?, subscription_status = ?, next_payment_date = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		doctor.SellerID,
		doctor.Name,
		doctor.Email,
		doctor.City,
		doctor.Specialty,
		doctor.Status,
		doctor.SubscriptionStatus,
		doctor.NextPaymentDate,
		doctor.Metadata,
		doctor.UpdatedAt,
		doctor.ID,
	).Error
}

func (r *repo) FindDueForSuspension(ctx context.Context, db *gorm.DB, before time.Time, limit int) ([]*domain.Doctor, error) {
	var doctors []*domain.Doctor
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, name, email, city, specialty, status, subscription_status, next_payment_date, metadata, created_at, updated_at
		 FROM doctors
		 WHERE status = ? AND (next_payment_date IS NULL OR next_payment_date < ?)
		 ORDER BY id
		 LIMIT ?
		 FOR UPDATE SKIP LOCKED`,
		domain.StatusActive,
		before,
		limit,
	).Scan(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *repo) MarkInactive(ctx context.Context, db *gorm.DB, ids []snowflake.ID, updatedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE doctors
		 SET status = ?, subscription_status = ?, updated_at = ?
		 WHERE id IN ?`,
		domain.StatusInactive,
		domain.SubscriptionInactive,
		updatedAt,
		ids,
	).Error
}

func (r *repo) FindDueForRollover(ctx context.Context, db *gorm.DB, due time.Time, limit int) ([]*domain.Doctor, error) {
	var doctors []*domain.Doctor
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, name, email, city, specialty, status, subscription_status, next_payment_date, metadata, created_at, updated_at
		 FROM doctors
		 WHERE status = ? AND next_payment_date = ?
		 ORDER BY id
		 LIMIT ?
		 FOR UPDATE SKIP LOCKED`,
		domain.StatusActive,
		due,
		limit,
	).Scan(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *repo) AdvancePaymentDate(ctx context.Context, db *gorm.DB, id snowflake.ID, next time.Time, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE doctors SET next_payment_date = ?, updated_at = ? WHERE id = ?`,
		next,
		updatedAt,
		id,
	).Error
}

func (r *repo) ListAccruableBySeller(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]*domain.Doctor, error) {
	var doctors []*domain.Doctor
	err := db.WithContext(ctx).Raw(
		`SELECT d.id, d.seller_id, d.name, d.email, d.city, d.specialty, d.status, d.subscription_status, d.next_payment_date, d.metadata, d.created_at, d.updated_at
		 FROM doctors d
		 WHERE d.seller_id = ?
		   AND d.status = ?
		   AND EXISTS (
			SELECT 1 FROM doctor_payments p
			WHERE p.doctor_id = d.id AND p.status = ?
		 )
		 ORDER BY d.id`,
		sellerID,
		domain.StatusActive,
		paymentdomain.StatusPaid,
	).Scan(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}
