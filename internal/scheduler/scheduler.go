package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	inactivationdomain "github.com/smallbiznis/medicita/internal/inactivation/domain"
	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
	sellerpaymentdomain "github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	settingsdomain "github.com/smallbiznis/medicita/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	JobCommissionAccrual = "commission_accrual"
	JobDoctorSuspension  = "doctor_suspension"
	JobPaymentRollover   = "payment_rollover"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	AppConfig  config.Config
	BillingCfg *config.BillingConfigHolder

	SettingsSvc       settingsdomain.Service
	SettingsRepo      settingsdomain.Repository
	DoctorRepo        doctordomain.Repository
	SellerRepo        sellerdomain.Repository
	SellerPaymentRepo sellerpaymentdomain.Repository
	InactivationRepo  inactivationdomain.Repository

	Metrics *obsmetrics.Metrics `optional:"true"`
	Locker  *Locker             `optional:"true"`
	Config  Config              `optional:"true"`
}

type Scheduler struct {
	db     *gorm.DB
	log    *zap.Logger
	cfg    Config
	appCfg config.Config
	genID  *snowflake.Node
	clock  clock.Clock

	billingCfg *config.BillingConfigHolder

	settingsSvc       settingsdomain.Service
	settingsRepo      settingsdomain.Repository
	doctorRepo        doctordomain.Repository
	sellerRepo        sellerdomain.Repository
	sellerPaymentRepo sellerpaymentdomain.Repository
	inactivationRepo  inactivationdomain.Repository

	metrics *obsmetrics.Metrics
	locker  *Locker
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Clock == nil ||
		p.SettingsSvc == nil || p.SettingsRepo == nil || p.DoctorRepo == nil ||
		p.SellerRepo == nil || p.SellerPaymentRepo == nil || p.InactivationRepo == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	return &Scheduler{
		db:                p.DB,
		log:               p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:               cfg,
		appCfg:            p.AppConfig,
		genID:             p.GenID,
		clock:             p.Clock,
		billingCfg:        p.BillingCfg,
		settingsSvc:       p.SettingsSvc,
		settingsRepo:      p.SettingsRepo,
		doctorRepo:        p.DoctorRepo,
		sellerRepo:        p.SellerRepo,
		sellerPaymentRepo: p.SellerPaymentRepo,
		inactivationRepo:  p.InactivationRepo,
		metrics:           p.Metrics,
		locker:            p.Locker,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	batchSize int,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run, owner := s.ensureJobRun(ctx, name, batchSize)
	if owner {
		s.logJobStart(ctx, run)
	}
	log := s.logger(ctx).With(
		zap.String("job", name),
		zap.String("run_id", run.runID),
	)
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	if s.locker != nil {
		key := "scheduler:job:" + name
		token, ok, lockErr := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
		if lockErr != nil {
			log.Warn("job lease unavailable, continuing on claim table", zap.Error(lockErr))
		} else if !ok {
			log.Debug("job lease held elsewhere, skipping")
			return nil
		} else {
			defer func() {
				if releaseErr := s.locker.Release(context.WithoutCancel(ctx), key, token); releaseErr != nil {
					log.Warn("job lease release failed", zap.Error(releaseErr))
				}
			}()
		}
	}

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if owner {
		if err != nil && run != nil && run.errorCount == 0 {
			run.IncError()
		}
		s.logJobFinish(ctx, run)
	}
	if err == nil {
		return nil
	}

	// Deadline counts as a soft timeout; the next tick picks the work up.
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		schedMetrics.IncJobTimeout(name)
	}
	schedMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes one pass over the daily jobs in business order:
// commissions accrue before suspensions remove doctors from the active
// set, and rollover goes last so freshly suspended doctors are excluded.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Enabled bool
		Run     func(context.Context) error
	}{
		{JobCommissionAccrual, s.isJobEnabled(JobCommissionAccrual), func(ctx context.Context) error {
			return s.runJob(ctx, JobCommissionAccrual, s.cfg.BatchSize, s.cfg.JobTimeout, s.CommissionAccrualJob)
		}},
		{JobDoctorSuspension, s.isJobEnabled(JobDoctorSuspension), func(ctx context.Context) error {
			return s.runJob(ctx, JobDoctorSuspension, s.cfg.BatchSize, s.cfg.JobTimeout, s.DoctorSuspensionJob)
		}},
		{JobPaymentRollover, s.isJobEnabled(JobPaymentRollover), func(ctx context.Context) error {
			return s.runJob(ctx, JobPaymentRollover, s.cfg.BatchSize, s.cfg.JobTimeout, s.PaymentRolloverJob)
		}},
	}

	for _, job := range jobs {
		if job.Enabled {
			err = errors.Join(err, job.Run(parent))
		}
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			schedMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty EnabledJobs list enables everything (monolith mode).
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// currentSettings loads the billing settings row. A nil result with nil
// error means the row is missing and the calling job must exit without
// writing anything.
func (s *Scheduler) currentSettings(ctx context.Context, job string) (*settingsdomain.BillingSetting, error) {
	setting, err := s.settingsSvc.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsdomain.ErrSettingsNotFound) {
			s.logger(ctx).Warn("scheduler.settings.missing", zap.String("job", job))
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// businessLocation resolves the timezone the jobs use to decide "today".
func (s *Scheduler) businessLocation(setting *settingsdomain.BillingSetting) *time.Location {
	if setting != nil && strings.TrimSpace(setting.Timezone) != "" {
		if loc, err := time.LoadLocation(strings.TrimSpace(setting.Timezone)); err == nil {
			return loc
		}
	}
	return s.appCfg.Location()
}
