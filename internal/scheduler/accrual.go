package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smallbiznis/medicita/internal/billingcycle"
	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	"github.com/smallbiznis/medicita/internal/scheduler/guard"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
	sellerpaymentdomain "github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	"github.com/smallbiznis/medicita/pkg/db"
	"go.uber.org/zap"
)

// CommissionAccrualJob creates the month's pending commission for every
// seller with accruable referrals. It runs every day; the per-period
// pending guard makes reruns no-ops.
func (s *Scheduler) CommissionAccrualJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobCommissionAccrual, s.cfg.BatchSize)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	setting, err := s.currentSettings(ctx, JobCommissionAccrual)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.accrual.settings.failed", JobCommissionAccrual, err)
		return err
	}
	if setting == nil {
		return nil
	}

	loc := s.businessLocation(setting)
	today := billingcycle.Midnight(s.clock.Now().In(loc))
	period := billingcycle.PeriodLabel(today)

	claimed, err := s.claimJobDay(ctx, JobCommissionAccrual, today)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.accrual.claim.failed", JobCommissionAccrual, err)
		return err
	}
	if !claimed {
		obsmetrics.Scheduler().IncBatchDeferred(JobCommissionAccrual, obsmetrics.SchedulerBatchDeferredReasonAlreadyClaimed)
		return nil
	}

	sellers, err := s.sellerRepo.ListActive(ctx, s.db)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.accrual.sellers.failed", JobCommissionAccrual, err)
		return err
	}

	rate := setting.CommissionRate
	if rate <= 0 {
		rate = s.billingCfg.Get().DefaultCommissionRate
	}

	// One seller failing must not starve the rest of the batch.
	var jobErr error
	created := 0
	for _, seller := range sellers {
		if seller == nil {
			continue
		}
		if ctx.Err() != nil {
			return errors.Join(jobErr, ctx.Err())
		}
		ok, sellerErr := s.accrueSeller(ctx, seller, period, rate)
		if sellerErr != nil {
			jobErr = errors.Join(jobErr, fmt.Errorf("seller %s: %w", seller.ID, sellerErr))
			s.logSchedulerError(ctx, run, "scheduler.accrual.seller.failed", JobCommissionAccrual, sellerErr,
				zap.String("seller_id", idString(seller.ID)),
			)
			continue
		}
		if ok {
			created++
			run.AddProcessed(1)
		}
	}

	obsmetrics.Scheduler().AddBatchProcessed(JobCommissionAccrual, "seller_payments", created)
	return jobErr
}

func (s *Scheduler) accrueSeller(ctx context.Context, seller *sellerdomain.Seller, period string, defaultRate float64) (bool, error) {
	if err := guard.EnsureSellerCanAccrue(seller.Status); err != nil {
		return false, nil
	}

	pending, err := s.sellerPaymentRepo.FindPendingForPeriod(ctx, s.db, seller.ID, period)
	if err != nil {
		return false, err
	}
	if pending != nil {
		return false, nil
	}

	doctors, err := s.doctorRepo.ListAccruableBySeller(ctx, s.db, seller.ID)
	if err != nil {
		return false, err
	}
	if len(doctors) == 0 {
		return false, nil
	}

	rate := seller.CommissionRate
	if rate <= 0 {
		rate = defaultRate
	}

	var amount float64
	breakdown := make([]sellerpaymentdomain.IncludedDoctor, 0, len(doctors))
	for _, doctor := range doctors {
		if doctor == nil {
			continue
		}
		fee, feeErr := s.cityFee(ctx, doctor.City)
		if feeErr != nil {
			return false, feeErr
		}
		commission := fee * rate
		amount += commission
		breakdown = append(breakdown, sellerpaymentdomain.IncludedDoctor{
			DoctorID:         doctor.ID,
			Name:             doctor.Name,
			CommissionAmount: commission,
		})
		s.metrics.RecordCommissionAccrual(ctx, doctor.City)
	}

	// Nothing owed, for example every referred city resolves to fee 0.
	if amount <= 0 {
		return false, nil
	}

	included, err := json.Marshal(breakdown)
	if err != nil {
		return false, err
	}

	now := s.clock.Now().UTC()
	payment := sellerpaymentdomain.SellerPayment{
		ID:              s.genID.Generate(),
		SellerID:        seller.ID,
		Amount:          amount,
		Period:          period,
		IncludedDoctors: included,
		Status:          sellerpaymentdomain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sellerPaymentRepo.Insert(ctx, s.db, &payment); err != nil {
		// A concurrent replica won the period; that is not a failure.
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}

	s.logger(ctx).Info("scheduler.accrual.created",
		zap.String("seller_id", idString(seller.ID)),
		zap.String("period", period),
		zap.Float64("amount", amount),
		zap.Int("doctor_count", len(doctors)),
	)
	return true, nil
}

// cityFee resolves the monthly fee for a city, preferring the database
// table and falling back to the hot-reloaded billing config.
func (s *Scheduler) cityFee(ctx context.Context, city string) (float64, error) {
	fee, err := s.settingsRepo.FindCityFee(ctx, s.db, city)
	if err != nil {
		return 0, err
	}
	if fee != nil {
		return fee.MonthlyFee, nil
	}
	return s.billingCfg.Get().CityFee(city), nil
}
