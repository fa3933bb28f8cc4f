package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *SellerPayment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SellerPayment, error)
	List(ctx context.Context, db *gorm.DB, filter ListSellerPaymentFilter, page pagination.Pagination) ([]*SellerPayment, error)
	Update(ctx context.Context, db *gorm.DB, payment *SellerPayment) error

	// FindPendingForPeriod matches the period label case-insensitively.
	FindPendingForPeriod(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, period string) (*SellerPayment, error)
}
