package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *InactivationLog) error
	List(ctx context.Context, db *gorm.DB, filter ListLogFilter, page pagination.Pagination) ([]*InactivationLog, error)

	// ExistsForDay reports whether the doctor already has a log entry
	// dated that day. The suspension job uses it to stay idempotent on
	// reruns.
	ExistsForDay(ctx context.Context, db *gorm.DB, doctorID snowflake.ID, day time.Time) (bool, error)
}
