package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/seller/domain"
	"github.com/smallbiznis/medicita/pkg/db/option"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, seller *domain.Seller) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO sellers (id, name, email, phone, commission_rate, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seller.ID,
		seller.Name,
		seller.Email,
		seller.Phone,
		seller.CommissionRate,
		seller.Status,
		seller.Metadata,
		seller.CreatedAt,
		seller.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Seller, error) {
	var seller domain.Seller
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, commission_rate, status, metadata, created_at, updated_at
		 FROM sellers WHERE id = ?`,
		id,
	).Scan(&seller).Error
	if err != nil {
		return nil, err
	}
	if seller.ID == 0 {
		return nil, nil
	}
	return &seller, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSellerFilter, page pagination.Pagination) ([]*domain.Seller, error) {
	var sellers []*domain.Seller
	stmt := db.WithContext(ctx).Model(&domain.Seller{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&sellers).Error
	if err != nil {
		return nil, err
	}
	return sellers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, seller *domain.Seller) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sellers
		 SET name = ?, email = ?, phone = ?, commission_rate = ?, status = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		seller.Name,
		seller.Email,
		seller.Phone,
		seller.CommissionRate,
		seller.Status,
		seller.Metadata,
		seller.UpdatedAt,
		seller.ID,
	).Error
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]*domain.Seller, error) {
	var sellers []*domain.Seller
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, commission_rate, status, metadata, created_at, updated_at
		 FROM sellers WHERE status = ? ORDER BY id`,
		domain.StatusActive,
	).Scan(&sellers).Error
	if err != nil {
		return nil, err
	}
	return sellers, nil
}
