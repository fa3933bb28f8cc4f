package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/seller/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("seller.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSellerRequest) (domain.Seller, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Seller{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Seller{}, domain.ErrInvalidEmail
	}
	if req.CommissionRate < 0 || req.CommissionRate > 1 {
		return domain.Seller{}, domain.ErrInvalidRate
	}

	now := time.Now().UTC()
	seller := domain.Seller{
		ID:             s.genID.Generate(),
		Name:           name,
		Email:          email,
		Phone:          strings.TrimSpace(req.Phone),
		CommissionRate: req.CommissionRate,
		Status:         domain.StatusActive,
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &seller); err != nil {
		return domain.Seller{}, err
	}

	return seller, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSellerRequest) (domain.ListSellerResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && status != domain.StatusActive && status != domain.StatusInactive {
		return domain.ListSellerResponse{}, domain.ErrInvalidStatus
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListSellerFilter{Status: status}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListSellerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(seller *domain.Seller) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        seller.ID.String(),
			CreatedAt: seller.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	sellers := make([]domain.Seller, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sellers = append(sellers, *item)
	}

	resp := domain.ListSellerResponse{Sellers: sellers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetSellerRequest) (domain.Seller, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Seller{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Seller{}, err
	}
	if item == nil {
		return domain.Seller{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSellerRequest) (domain.Seller, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Seller{}, domain.ErrInvalidID
	}

	status := strings.TrimSpace(req.Status)
	if status != "" && status != domain.StatusActive && status != domain.StatusInactive {
		return domain.Seller{}, domain.ErrInvalidStatus
	}
	if req.CommissionRate != nil && (*req.CommissionRate < 0 || *req.CommissionRate > 1) {
		return domain.Seller{}, domain.ErrInvalidRate
	}

	seller, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Seller{}, err
	}
	if seller == nil {
		return domain.Seller{}, domain.ErrNotFound
	}

	if phone := strings.TrimSpace(req.Phone); phone != "" {
		seller.Phone = phone
	}
	if status != "" {
		seller.Status = status
	}
	if req.CommissionRate != nil {
		seller.CommissionRate = *req.CommissionRate
	}
	seller.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, seller); err != nil {
		return domain.Seller{}, err
	}

	return *seller, nil
}
