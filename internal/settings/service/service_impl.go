package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/billingcycle"
	"github.com/smallbiznis/medicita/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("settings.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.BillingSetting, error) {
	setting, err := s.repo.FindCurrent(ctx, s.db)
	if err != nil {
		return domain.BillingSetting{}, err
	}
	if setting == nil {
		return domain.BillingSetting{}, domain.ErrSettingsNotFound
	}
	return *setting, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (domain.BillingSetting, error) {
	if err := billingcycle.ValidateCycleEndDay(req.CycleEndDay); err != nil {
		return domain.BillingSetting{}, err
	}
	if req.CommissionRate <= 0 || req.CommissionRate > 1 {
		return domain.BillingSetting{}, domain.ErrInvalidCommissionRate
	}
	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "America/Caracas"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return domain.BillingSetting{}, domain.ErrInvalidTimezone
	}

	now := time.Now().UTC()
	current, err := s.repo.FindCurrent(ctx, s.db)
	if err != nil {
		return domain.BillingSetting{}, err
	}

	if current == nil {
		setting := domain.BillingSetting{
			ID:             s.genID.Generate(),
			CycleEndDay:    req.CycleEndDay,
			CommissionRate: req.CommissionRate,
			Timezone:       timezone,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.Insert(ctx, s.db, &setting); err != nil {
			return domain.BillingSetting{}, err
		}
		s.log.Info("settings.created", zap.Int("cycle_end_day", setting.CycleEndDay))
		return setting, nil
	}

	current.CycleEndDay = req.CycleEndDay
	current.CommissionRate = req.CommissionRate
	current.Timezone = timezone
	current.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, current); err != nil {
		return domain.BillingSetting{}, err
	}
	s.log.Info("settings.updated", zap.Int("cycle_end_day", current.CycleEndDay))
	return *current, nil
}

func (s *Service) ListCityFees(ctx context.Context) ([]domain.CityFee, error) {
	items, err := s.repo.ListCityFees(ctx, s.db)
	if err != nil {
		return nil, err
	}
	fees := make([]domain.CityFee, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		fees = append(fees, *item)
	}
	return fees, nil
}

func (s *Service) SetCityFee(ctx context.Context, req domain.SetCityFeeRequest) (domain.CityFee, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return domain.CityFee{}, domain.ErrInvalidCity
	}
	if req.MonthlyFee < 0 {
		return domain.CityFee{}, domain.ErrInvalidFee
	}

	now := time.Now().UTC()
	current, err := s.repo.FindCityFee(ctx, s.db, city)
	if err != nil {
		return domain.CityFee{}, err
	}

	if current == nil {
		fee := domain.CityFee{
			ID:         s.genID.Generate(),
			City:       city,
			MonthlyFee: req.MonthlyFee,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.InsertCityFee(ctx, s.db, &fee); err != nil {
			return domain.CityFee{}, err
		}
		return fee, nil
	}

	current.MonthlyFee = req.MonthlyFee
	current.UpdatedAt = now
	if err := s.repo.UpdateCityFee(ctx, s.db, current); err != nil {
		return domain.CityFee{}, err
	}
	return *current, nil
}
