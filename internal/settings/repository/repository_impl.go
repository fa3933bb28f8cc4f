package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/medicita/internal/settings/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCurrent(ctx context.Context, db *gorm.DB) (*domain.BillingSetting, error) {
	var setting domain.BillingSetting
	err := db.WithContext(ctx).Raw(
		`SELECT id, cycle_end_day, commission_rate, timezone, created_at, updated_at
		 FROM billing_settings ORDER BY created_at ASC LIMIT 1`,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, setting *domain.BillingSetting) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO billing_settings (id, cycle_end_day, commission_rate, timezone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		setting.ID,
		setting.CycleEndDay,
		setting.CommissionRate,
		setting.Timezone,
		setting.CreatedAt,
		setting.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, setting *domain.BillingSetting) error {
	return db.WithContext(ctx).Exec(
		`UPDATE billing_settings
		 SET cycle_end_day = ?, commission_rate = ?, timezone = ?, updated_at = ?
		 WHERE id = ?`,
		setting.CycleEndDay,
		setting.CommissionRate,
		setting.Timezone,
		setting.UpdatedAt,
		setting.ID,
	).Error
}

func (r *repo) ListCityFees(ctx context.Context, db *gorm.DB) ([]*domain.CityFee, error) {
	var fees []*domain.CityFee
	err := db.WithContext(ctx).Raw(
		`SELECT id, city, monthly_fee, created_at, updated_at
		 FROM city_fees ORDER BY city ASC`,
	).Scan(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *repo) FindCityFee(ctx context.Context, db *gorm.DB, city string) (*domain.CityFee, error) {
	var fee domain.CityFee
	err := db.WithContext(ctx).Raw(
		`SELECT id, city, monthly_fee, created_at, updated_at
		 FROM city_fees WHERE LOWER(city) = LOWER(?)`,
		strings.TrimSpace(city),
	).Scan(&fee).Error
	if err != nil {
		return nil, err
	}
	if fee.ID == 0 {
		return nil, nil
	}
	return &fee, nil
}

func (r *repo) InsertCityFee(ctx context.Context, db *gorm.DB, fee *domain.CityFee) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO city_fees (id, city, monthly_fee, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		fee.ID,
		fee.City,
		fee.MonthlyFee,
		fee.CreatedAt,
		fee.UpdatedAt,
	).Error
}

func (r *repo) UpdateCityFee(ctx context.Context, db *gorm.DB, fee *domain.CityFee) error {
	return db.WithContext(ctx).Exec(
		`UPDATE city_fees SET monthly_fee = ?, updated_at = ? WHERE id = ?`,
		fee.MonthlyFee,
		fee.UpdatedAt,
		fee.ID,
	).Error
}
