package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *DoctorPayment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DoctorPayment, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*DoctorPayment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, payment *DoctorPayment) error
}
