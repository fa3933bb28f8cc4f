package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/inactivation/domain"
	"github.com/smallbiznis/medicita/pkg/db/option"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, log *domain.InactivationLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inactivation_logs (id, doctor_id, doctor_name, reason, origin, occurred_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.DoctorID,
		log.DoctorName,
		log.Reason,
		log.Origin,
		log.OccurredOn,
		log.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListLogFilter, page pagination.Pagination) ([]*domain.InactivationLog, error) {
	var logs []*domain.InactivationLog
	stmt := db.WithContext(ctx).Model(&domain.InactivationLog{})
	if filter.DoctorID != "" {
		stmt = stmt.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.Origin != "" {
		stmt = stmt.Where("origin = ?", filter.Origin)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) ExistsForDay(ctx context.Context, db *gorm.DB, doctorID snowflake.ID, day time.Time) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM inactivation_logs WHERE doctor_id = ? AND occurred_on = ?`,
		doctorID,
		day,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
