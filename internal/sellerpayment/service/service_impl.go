package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sellerpayment.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListSellerPaymentRequest) (domain.ListSellerPaymentResponse, error) {
	filter := domain.ListSellerPaymentFilter{
		SellerID: strings.TrimSpace(req.SellerID),
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
		return domain.ListSellerPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.SellerPayment) string {
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

	payments := make([]domain.SellerPayment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListSellerPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetSellerPaymentRequest) (domain.SellerPayment, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.SellerPayment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.SellerPayment{}, err
	}
	if payment == nil {
		return domain.SellerPayment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func (s *Service) MarkPaid(ctx context.Context, req domain.MarkPaidRequest) (domain.SellerPayment, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.SellerPayment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.SellerPayment{}, err
	}
	if payment == nil {
		return domain.SellerPayment{}, domain.ErrNotFound
	}
	if payment.Status != domain.StatusPending {
		return domain.SellerPayment{}, domain.ErrAlreadyPaid
	}

	now := s.clock.Now().UTC()
	payment.Status = domain.StatusPaid
	payment.ProofURL = strings.TrimSpace(req.ProofURL)
	payment.TransactionID = strings.TrimSpace(req.TransactionID)
	payment.PaidAt = &now
	payment.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, payment); err != nil {
		return domain.SellerPayment{}, err
	}

	s.log.Info("sellerpayment.paid",
		zap.String("payment_id", payment.ID.String()),
		zap.String("seller_id", payment.SellerID.String()),
		zap.String("period", payment.Period),
	)
	return *payment, nil
}

func (s *Service) MarkRead(ctx context.Context, req domain.MarkReadRequest) (domain.SellerPayment, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.SellerPayment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.SellerPayment{}, err
	}
	if payment == nil {
		return domain.SellerPayment{}, domain.ErrNotFound
	}
	if payment.Read {
		return *payment, nil
	}

	payment.Read = true
	payment.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, payment); err != nil {
		return domain.SellerPayment{}, err
	}

	return *payment, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
