package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doctor *Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Doctor, error)
	List(ctx context.Context, db *gorm.DB, filter ListDoctorFilter, page pagination.Pagination) ([]*Doctor, error)
	Update(ctx context.Context, db *gorm.DB, doctor *Doctor) error

	// FindDueForSuspension claims active doctors whose next payment date
	// is null or strictly before the cutoff. Rows are locked with SKIP
	// LOCKED so concurrent replicas never double-claim.
	FindDueForSuspension(ctx context.Context, db *gorm.DB, before time.Time, limit int) ([]*Doctor, error)
	MarkInactive(ctx context.Context, db *gorm.DB, ids []snowflake.ID, updatedAt time.Time) error

	// FindDueForRollover claims active doctors whose next payment date
	// equals the cycle end date of the current month.
	FindDueForRollover(ctx context.Context, db *gorm.DB, due time.Time, limit int) ([]*Doctor, error)
	AdvancePaymentDate(ctx context.Context, db *gorm.DB, id snowflake.ID, next time.Time, updatedAt time.Time) error

	// ListAccruableBySeller returns the seller's referred doctors that
	// are active and have at least one approved payment.
	ListAccruableBySeller(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]*Doctor, error)
}
