package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, seller *Seller) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Seller, error)
	List(ctx context.Context, db *gorm.DB, filter ListSellerFilter, page pagination.Pagination) ([]*Seller, error)
	Update(ctx context.Context, db *gorm.DB, seller *Seller) error

	// ListActive returns every active seller. The accrual job walks the
	// full set, so no pagination here.
	ListActive(ctx context.Context, db *gorm.DB) ([]*Seller, error)
}
