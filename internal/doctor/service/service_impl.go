package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/doctor/domain"
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
		log:   p.Log.Named("doctor.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDoctorRequest) (domain.Doctor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Doctor{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Doctor{}, domain.ErrInvalidEmail
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		return domain.Doctor{}, domain.ErrInvalidCity
	}

	var sellerID snowflake.ID
	if raw := strings.TrimSpace(req.SellerID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			return domain.Doctor{}, domain.ErrInvalidID
		}
		sellerID = parsed
	}

	now := time.Now().UTC()
	doctor := domain.Doctor{
		ID:                 s.genID.Generate(),
		SellerID:           sellerID,
		Name:               name,
		Email:              email,
		City:               city,
		Specialty:          strings.TrimSpace(req.Specialty),
		Status:             domain.StatusActive,
		SubscriptionStatus: domain.SubscriptionPending,
		Metadata:           datatypes.JSONMap{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &doctor); err != nil {
		return domain.Doctor{}, err
	}

	return doctor, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDoctorRequest) (domain.ListDoctorResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && status != domain.StatusActive && status != domain.StatusInactive {
		return domain.ListDoctorResponse{}, domain.ErrInvalidStatus
	}

	filter := domain.ListDoctorFilter{
		Status:   status,
		City:     strings.TrimSpace(req.City),
		SellerID: strings.TrimSpace(req.SellerID),
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
		return domain.ListDoctorResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(doctor *domain.Doctor) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        doctor.ID.String(),
			CreatedAt: doctor.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	doctors := make([]domain.Doctor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		doctors = append(doctors, *item)
	}

	resp := domain.ListDoctorResponse{Doctors: doctors}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetDoctorRequest) (domain.Doctor, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Doctor{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Doctor{}, err
	}
	if item == nil {
		return domain.Doctor{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateDoctorRequest) (domain.Doctor, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Doctor{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Doctor{}, err
	}
	if item == nil {
		return domain.Doctor{}, domain.ErrNotFound
	}

	if status := strings.TrimSpace(req.Status); status != "" {
		if status != domain.StatusActive && status != domain.StatusInactive {
			return domain.Doctor{}, domain.ErrInvalidStatus
		}
		item.Status = status
		if status == domain.StatusActive && item.SubscriptionStatus == domain.SubscriptionInactive {
			item.SubscriptionStatus = domain.SubscriptionPending
		}
	}
	if city := strings.TrimSpace(req.City); city != "" {
		item.City = city
	}
	if specialty := strings.TrimSpace(req.Specialty); specialty != "" {
		item.Specialty = specialty
	}
	if req.NextPaymentDate != nil {
		item.NextPaymentDate = req.NextPaymentDate
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Doctor{}, err
	}

	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
