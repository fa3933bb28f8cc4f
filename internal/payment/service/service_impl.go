package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/billingcycle"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	"github.com/smallbiznis/medicita/internal/observability/metrics"
	"github.com/smallbiznis/medicita/internal/payment/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Config     config.Config
	Clock      clock.Clock
	Repo       domain.Repository
	DoctorRepo doctordomain.Repository
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	cfg        config.Config
	clock      clock.Clock
	repo       domain.Repository
	doctorRepo doctordomain.Repository
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		cfg:        p.Config,
		clock:      p.Clock,
		repo:       p.Repo,
		doctorRepo: p.DoctorRepo,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.DoctorPayment, error) {
	doctorID, err := snowflake.ParseString(strings.TrimSpace(req.DoctorID))
	if err != nil || doctorID == 0 {
		return domain.DoctorPayment{}, domain.ErrInvalidDoctor
	}
	if req.Amount <= 0 {
		return domain.DoctorPayment{}, domain.ErrInvalidAmount
	}

	doctor, err := s.doctorRepo.FindByID(ctx, s.db, doctorID)
	if err != nil {
		return domain.DoctorPayment{}, err
	}
	if doctor == nil {
		return domain.DoctorPayment{}, domain.ErrInvalidDoctor
	}

	now := s.clock.Now().UTC()
	payment := domain.DoctorPayment{
		ID:        s.genID.Generate(),
		DoctorID:  doctorID,
		Amount:    req.Amount,
		Method:    strings.TrimSpace(req.Method),
		Reference: strings.TrimSpace(req.Reference),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.DoctorPayment{}, err
	}

	return payment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	filter := domain.ListPaymentFilter{
		DoctorID: strings.TrimSpace(req.DoctorID),
		Status:   strings.TrimSpace(req.Status),
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
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.DoctorPayment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	payments := make([]domain.DoctorPayment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Approve(ctx context.Context, req domain.ReviewPaymentRequest) (domain.DoctorPayment, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.DoctorPayment{}, err
	}

	var approved domain.DoctorPayment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.Status != domain.StatusPending {
			return domain.ErrAlreadyReviewed
		}

		doctor, err := s.doctorRepo.FindByID(ctx, tx, payment.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return domain.ErrInvalidDoctor
		}

		now := s.clock.Now()
		today := billingcycle.Midnight(now.In(s.cfg.Location()))

		payment.Status = domain.StatusPaid
		paidAt := now.UTC()
		payment.PaidAt = &paidAt
		payment.UpdatedAt = paidAt
		if err := s.repo.UpdateStatus(ctx, tx, payment); err != nil {
			return err
		}

		// Covered months already paid keep their anchor day. Lapsed
		// doctors restart the cycle from today.
		base := today
		if doctor.NextPaymentDate != nil && !doctor.NextPaymentDate.Before(today) {
			base = *doctor.NextPaymentDate
		}
		next := billingcycle.AddMonthClamped(base)

		doctor.NextPaymentDate = &next
		doctor.Status = doctordomain.StatusActive
		doctor.SubscriptionStatus = doctordomain.SubscriptionActive
		doctor.UpdatedAt = paidAt
		if err := s.doctorRepo.Update(ctx, tx, doctor); err != nil {
			return err
		}

		approved = *payment
		return nil
	})
	if err != nil {
		return domain.DoctorPayment{}, err
	}

	s.metrics.RecordPaymentApproval(ctx, domain.StatusPaid)
	s.log.Info("payment.approved",
		zap.String("payment_id", approved.ID.String()),
		zap.String("doctor_id", approved.DoctorID.String()),
	)
	return approved, nil
}

func (s *Service) Reject(ctx context.Context, req domain.ReviewPaymentRequest) (domain.DoctorPayment, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.DoctorPayment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.DoctorPayment{}, err
	}
	if payment == nil {
		return domain.DoctorPayment{}, domain.ErrNotFound
	}
	if payment.Status != domain.StatusPending {
		return domain.DoctorPayment{}, domain.ErrAlreadyReviewed
	}

	payment.Status = domain.StatusRejected
	payment.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, s.db, payment); err != nil {
		return domain.DoctorPayment{}, err
	}

	s.metrics.RecordPaymentApproval(ctx, domain.StatusRejected)
	return *payment, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
