package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/medicita/internal/inactivation/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("inactivation.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListLogRequest) (domain.ListLogResponse, error) {
	filter := domain.ListLogFilter{
		DoctorID: strings.TrimSpace(req.DoctorID),
		Origin:   strings.TrimSpace(req.Origin),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListLogResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(log *domain.InactivationLog) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        log.ID.String(),
			CreatedAt: log.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	logs := make([]domain.InactivationLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}

	resp := domain.ListLogResponse{Logs: logs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}
