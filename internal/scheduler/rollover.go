package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/medicita/internal/billingcycle"
	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	"github.com/smallbiznis/medicita/internal/scheduler/guard"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentRolloverJob advances doctors anchored on the cycle end that
// closed yesterday. Doctors paying mid-cycle keep their own anchor and
// are moved by payment approval instead.
func (s *Scheduler) PaymentRolloverJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobPaymentRollover, s.cfg.BatchSize)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	setting, err := s.currentSettings(ctx, JobPaymentRollover)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.rollover.settings.failed", JobPaymentRollover, err)
		return err
	}
	if setting == nil {
		return nil
	}

	loc := s.businessLocation(setting)
	today := billingcycle.Midnight(s.clock.Now().In(loc))

	due, err := billingcycle.IsDayAfterCycleEnd(today, setting.CycleEndDay)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.rollover.invalid_cycle_day", JobPaymentRollover, err,
			zap.Int("cycle_end_day", setting.CycleEndDay),
		)
		return err
	}
	if !due {
		return nil
	}

	claimed, err := s.claimJobDay(ctx, JobPaymentRollover, today)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.rollover.claim.failed", JobPaymentRollover, err)
		return err
	}
	if !claimed {
		obsmetrics.Scheduler().IncBatchDeferred(JobPaymentRollover, obsmetrics.SchedulerBatchDeferredReasonAlreadyClaimed)
		return nil
	}

	// The cycle that triggered today closed yesterday, so yesterday is
	// the anchor date the due doctors carry.
	cycleEnd := billingcycle.Midnight(today.AddDate(0, 0, -1))

	var jobErr error
	for {
		if ctx.Err() != nil {
			return errors.Join(jobErr, ctx.Err())
		}

		processed, batchErr := s.rolloverBatch(ctx, run, cycleEnd)
		if batchErr != nil {
			jobErr = errors.Join(jobErr, batchErr)
			break
		}
		run.AddProcessed(processed)
		if processed == 0 {
			break
		}
	}

	return jobErr
}

func (s *Scheduler) rolloverBatch(ctx context.Context, run *jobRun, cycleEnd time.Time) (int, error) {
	processed := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockStart := time.Now()
		doctors, err := s.doctorRepo.FindDueForRollover(ctx, tx, cycleEnd, s.cfg.BatchSize)
		obsmetrics.Scheduler().ObserveDBLockWait(obsmetrics.LockResourceDoctorsForWork, time.Since(lockStart))
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		for _, doctor := range doctors {
			if doctor == nil {
				continue
			}
			if err := guard.EnsureDoctorCanRollOver(doctor.Status, doctor.NextPaymentDate, cycleEnd); err != nil {
				continue
			}
			s.logDoctorClaimed(ctx, JobPaymentRollover, doctor.ID)
			next := billingcycle.AddMonthClamped(*doctor.NextPaymentDate)
			if err := s.doctorRepo.AdvancePaymentDate(ctx, tx, doctor.ID, next, now); err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.rollover.batch.failed", JobPaymentRollover, err)
		return 0, err
	}

	for i := 0; i < processed; i++ {
		s.metrics.RecordPaymentRollover(ctx)
	}
	obsmetrics.Scheduler().AddBatchProcessed(JobPaymentRollover, "doctors", processed)
	return processed, nil
}
