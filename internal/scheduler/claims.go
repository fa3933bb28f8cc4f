package scheduler

import (
	"context"
	"time"

	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	"github.com/smallbiznis/medicita/pkg/db"
)

// claimJobDay inserts the (job, day) row that marks today's run as
// taken. The unique index makes reruns and concurrent replicas no-ops,
// so each job executes at most once per local day.
func (s *Scheduler) claimJobDay(ctx context.Context, job string, day time.Time) (bool, error) {
	lockStart := time.Now()
	res := s.db.WithContext(ctx).Exec(
		`INSERT INTO scheduler_job_runs (id, job, run_day, claimed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (job, run_day) DO NOTHING`,
		s.genID.Generate(),
		job,
		day,
		s.clock.Now().UTC(),
	)
	obsmetrics.Scheduler().ObserveDBLockWait(obsmetrics.LockResourceSchedulerJobClaim, time.Since(lockStart))
	if res.Error != nil {
		if db.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
