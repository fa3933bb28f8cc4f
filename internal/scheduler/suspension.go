package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/billingcycle"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	inactivationdomain "github.com/smallbiznis/medicita/internal/inactivation/domain"
	"github.com/smallbiznis/medicita/internal/scheduler/guard"
	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DoctorSuspensionJob deactivates doctors whose next payment date is
// missing or already past. It only runs on the first day after the
// configured cycle end and claims that day exactly once.
func (s *Scheduler) DoctorSuspensionJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobDoctorSuspension, s.cfg.BatchSize)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	setting, err := s.currentSettings(ctx, JobDoctorSuspension)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.suspension.settings.failed", JobDoctorSuspension, err)
		return err
	}
	if setting == nil {
		return nil
	}

	loc := s.businessLocation(setting)
	today := billingcycle.Midnight(s.clock.Now().In(loc))

	due, err := billingcycle.IsDayAfterCycleEnd(today, setting.CycleEndDay)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.suspension.invalid_cycle_day", JobDoctorSuspension, err,
			zap.Int("cycle_end_day", setting.CycleEndDay),
		)
		return err
	}
	if !due {
		return nil
	}

	claimed, err := s.claimJobDay(ctx, JobDoctorSuspension, today)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.suspension.claim.failed", JobDoctorSuspension, err)
		return err
	}
	if !claimed {
		obsmetrics.Scheduler().IncBatchDeferred(JobDoctorSuspension, obsmetrics.SchedulerBatchDeferredReasonAlreadyClaimed)
		return nil
	}

	var jobErr error
	for {
		if ctx.Err() != nil {
			return errors.Join(jobErr, ctx.Err())
		}

		processed, batchErr := s.suspendBatch(ctx, run, today)
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

func (s *Scheduler) suspendBatch(ctx context.Context, run *jobRun, today time.Time) (int, error) {
	var suspended []*doctordomain.Doctor

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockStart := time.Now()
		doctors, err := s.doctorRepo.FindDueForSuspension(ctx, tx, today, s.cfg.BatchSize)
		obsmetrics.Scheduler().ObserveDBLockWait(obsmetrics.LockResourceDoctorsForWork, time.Since(lockStart))
		if err != nil {
			return err
		}
		if len(doctors) == 0 {
			return nil
		}

		ids := make([]snowflake.ID, 0, len(doctors))
		claimed := make([]*doctordomain.Doctor, 0, len(doctors))
		for _, doctor := range doctors {
			if err := guard.EnsureDoctorCanBeSuspended(doctor.Status, doctor.NextPaymentDate, today); err != nil {
				continue
			}
			s.logDoctorClaimed(ctx, JobDoctorSuspension, doctor.ID)
			ids = append(ids, doctor.ID)
			claimed = append(claimed, doctor)
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.doctorRepo.MarkInactive(ctx, tx, ids, s.clock.Now().UTC()); err != nil {
			return err
		}

		suspended = claimed
		return nil
	})
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.suspension.batch.failed", JobDoctorSuspension, err)
		return 0, err
	}
	if len(suspended) == 0 {
		return 0, nil
	}

	for _, doctor := range suspended {
		if err := s.appendInactivationLog(ctx, doctor, today); err != nil {
			s.logSchedulerError(ctx, run, "scheduler.suspension.log.failed", JobDoctorSuspension, err,
				zap.String("doctor_id", idString(doctor.ID)),
			)
			continue
		}
		s.metrics.RecordDoctorSuspension(ctx, "missing_payment")
	}

	obsmetrics.Scheduler().AddBatchProcessed(JobDoctorSuspension, "doctors", len(suspended))
	return len(suspended), nil
}

// appendInactivationLog writes at most one log entry per doctor per day,
// keeping retried runs from duplicating history.
func (s *Scheduler) appendInactivationLog(ctx context.Context, doctor *doctordomain.Doctor, today time.Time) error {
	exists, err := s.inactivationRepo.ExistsForDay(ctx, s.db, doctor.ID, today)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.inactivationRepo.Insert(ctx, s.db, &inactivationdomain.InactivationLog{
		ID:         s.genID.Generate(),
		DoctorID:   doctor.ID,
		DoctorName: doctor.Name,
		Reason:     inactivationdomain.ReasonMissingPayment,
		Origin:     inactivationdomain.OriginAutomatic,
		OccurredOn: today,
		CreatedAt:  s.clock.Now().UTC(),
	})
}
