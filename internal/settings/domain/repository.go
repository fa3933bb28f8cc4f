package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindCurrent(ctx context.Context, db *gorm.DB) (*BillingSetting, error)
	Insert(ctx context.Context, db *gorm.DB, setting *BillingSetting) error
	Update(ctx context.Context, db *gorm.DB, setting *BillingSetting) error

	ListCityFees(ctx context.Context, db *gorm.DB) ([]*CityFee, error)
	FindCityFee(ctx context.Context, db *gorm.DB, city string) (*CityFee, error)
	InsertCityFee(ctx context.Context, db *gorm.DB, fee *CityFee) error
	UpdateCityFee(ctx context.Context, db *gorm.DB, fee *CityFee) error
}
