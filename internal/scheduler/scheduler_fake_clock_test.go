package scheduler

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/medicita/internal/clock"
	"github.com/smallbiznis/medicita/internal/config"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	doctorrepo "github.com/smallbiznis/medicita/internal/doctor/repository"
	inactivationrepo "github.com/smallbiznis/medicita/internal/inactivation/repository"
	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/medicita/internal/payment/domain"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
	sellerrepo "github.com/smallbiznis/medicita/internal/seller/repository"
	sellerpaymentdomain "github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	sellerpaymentrepo "github.com/smallbiznis/medicita/internal/sellerpayment/repository"
	settingsrepo "github.com/smallbiznis/medicita/internal/settings/repository"
	settingsservice "github.com/smallbiznis/medicita/internal/settings/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// SQLite support hack: remove FOR UPDATE clauses
	stripForUpdate := func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE SKIP LOCKED", "")
			newSQL = strings.ReplaceAll(newSQL, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	}
	db.Callback().Query().Before("gorm:query").Register("sqlite_skip_locked", stripForUpdate)
	db.Callback().Row().Before("gorm:row").Register("sqlite_skip_locked_row", stripForUpdate)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE billing_settings (
			id INTEGER PRIMARY KEY,
			cycle_end_day INTEGER NOT NULL,
			commission_rate REAL NOT NULL,
			timezone TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE city_fees (
			id INTEGER PRIMARY KEY,
			city TEXT NOT NULL UNIQUE,
			monthly_fee REAL NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE sellers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			commission_rate REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE doctors (
			id INTEGER PRIMARY KEY,
			seller_id INTEGER,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			city TEXT NOT NULL,
			specialty TEXT,
			status TEXT NOT NULL,
			subscription_status TEXT NOT NULL,
			next_payment_date DATETIME,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE doctor_payments (
			id INTEGER PRIMARY KEY,
			doctor_id INTEGER NOT NULL,
			amount REAL NOT NULL,
			method TEXT,
			reference TEXT,
			status TEXT NOT NULL,
			paid_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE seller_payments (
			id INTEGER PRIMARY KEY,
			seller_id INTEGER NOT NULL,
			amount REAL NOT NULL,
			period TEXT NOT NULL,
			included_doctors TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL,
			proof_url TEXT,
			transaction_id TEXT,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			paid_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE inactivation_logs (
			id INTEGER PRIMARY KEY,
			doctor_id INTEGER NOT NULL,
			doctor_name TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL,
			origin TEXT NOT NULL,
			occurred_on DATETIME NOT NULL,
			created_at DATETIME
		)`,
		`CREATE TABLE scheduler_job_runs (
			id INTEGER PRIMARY KEY,
			job TEXT NOT NULL,
			run_day DATETIME NOT NULL,
			claimed_at DATETIME,
			UNIQUE (job, run_day)
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func newTestScheduler(t *testing.T, db *gorm.DB, fakeClock *clock.FakeClock) (*Scheduler, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	billingCfg, err := config.NewBillingConfigHolder()
	if err != nil {
		t.Fatalf("billing config: %v", err)
	}

	settingsRepo := settingsrepo.Provide()
	settingsSvc := settingsservice.New(settingsservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  settingsRepo,
	})

	sched, err := New(Params{
		DB:                db,
		Log:               zap.NewNop(),
		GenID:             node,
		Clock:             fakeClock,
		AppConfig:         config.Config{Timezone: "America/Caracas"},
		BillingCfg:        billingCfg,
		SettingsSvc:       settingsSvc,
		SettingsRepo:      settingsRepo,
		DoctorRepo:        doctorrepo.Provide(),
		SellerRepo:        sellerrepo.Provide(),
		SellerPaymentRepo: sellerpaymentrepo.Provide(),
		InactivationRepo:  inactivationrepo.Provide(),
		Config: Config{
			RunInterval: time.Minute,
			BatchSize:   10,
			JobTimeout:  30 * time.Second,
			LockTTL:     time.Minute,
		},
	})
	if err != nil {
		t.Fatalf("New scheduler: %v", err)
	}
	return sched, node
}

func seedSettings(t *testing.T, db *gorm.DB, node *snowflake.Node, cycleEndDay int, rate float64) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO billing_settings (id, cycle_end_day, commission_rate, timezone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		node.Generate(), cycleEndDay, rate, "America/Caracas", now, now,
	).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
}

func seedCityFee(t *testing.T, db *gorm.DB, node *snowflake.Node, city string, fee float64) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO city_fees (id, city, monthly_fee, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		node.Generate(), city, fee, now, now,
	).Error; err != nil {
		t.Fatalf("seed city fee %s: %v", city, err)
	}
}

func seedSeller(t *testing.T, db *gorm.DB, id snowflake.ID, status string) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO sellers (id, name, email, phone, commission_rate, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, '{}', ?, ?)`,
		id, "Seller "+id.String(), id.String()+"@example.test", "", status, now, now,
	).Error; err != nil {
		t.Fatalf("seed seller: %v", err)
	}
}

func seedDoctor(t *testing.T, db *gorm.DB, id, sellerID snowflake.ID, city string, nextPaymentDate *time.Time) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO doctors (id, seller_id, name, email, city, specialty, status, subscription_status, next_payment_date, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '{}', ?, ?)`,
		id, sellerID, "Doctor "+id.String(), id.String()+"@example.test", city, "general",
		doctordomain.StatusActive, doctordomain.SubscriptionActive, nextPaymentDate, now, now,
	).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
}

func seedPaidDoctorPayment(t *testing.T, db *gorm.DB, node *snowflake.Node, doctorID snowflake.ID, amount float64) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO doctor_payments (id, doctor_id, amount, method, reference, status, paid_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.Generate(), doctorID, amount, "transfer", "ref", paymentdomain.StatusPaid, now, now, now,
	).Error; err != nil {
		t.Fatalf("seed doctor payment: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, query string, args ...any) int64 {
	t.Helper()
	var count int64
	if err := db.Raw(query, args...).Scan(&count).Error; err != nil {
		t.Fatalf("count query %q: %v", query, err)
	}
	return count
}

// TestScheduler_RunOnce_FakeClock_FullCycle steps a simulated month
// across a cycle boundary and verifies accrual, suspension and the
// per-day claims working together.
func TestScheduler_RunOnce_FakeClock_FullCycle(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()
	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{ServiceName: "medicita", Environment: "test"})

	db := newTestDB(t)

	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start := time.Date(2024, time.July, 5, 7, 0, 0, 0, caracas)
	fakeClock := clock.NewFakeClock(start)

	sched, node := newTestScheduler(t, db, fakeClock)

	seedSettings(t, db, node, 6, 0.2)
	seedCityFee(t, db, node, "Caracas", 50)
	seedCityFee(t, db, node, "Valencia", 75)

	sellerID := node.Generate()
	seedSeller(t, db, sellerID, sellerdomain.StatusActive)

	// Doctor anchored on the July 6 cycle end, never paid.
	delinquentID := node.Generate()
	julCycleEnd := time.Date(2024, time.July, 6, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, delinquentID, sellerID, "Caracas", &julCycleEnd)
	seedPaidDoctorPayment(t, db, node, delinquentID, 50)

	// Doctor paid ahead through August 6.
	paidID := node.Generate()
	augAnchor := time.Date(2024, time.August, 6, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, paidID, sellerID, "Valencia", &augAnchor)
	seedPaidDoctorPayment(t, db, node, paidID, 75)

	ctx := context.Background()

	// July 5: accrual creates the Julio payment, the cycle gates keep
	// suspension and rollover idle.
	if err := sched.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce on day 1: %v", err)
	}

	var julio struct {
		Amount float64
		Status string
	}
	if err := db.Raw(
		`SELECT amount, status FROM seller_payments WHERE seller_id = ? AND period = ?`,
		sellerID, "Julio 2024",
	).Scan(&julio).Error; err != nil {
		t.Fatalf("fetch Julio payment: %v", err)
	}
	if julio.Status != "pending" {
		t.Fatalf("expected Julio payment pending, got %q", julio.Status)
	}
	if want := (50 + 75) * 0.2; math.Abs(julio.Amount-want) > 1e-9 {
		t.Fatalf("expected Julio amount %v, got %v", want, julio.Amount)
	}
	var included string
	if err := db.Raw(
		`SELECT included_doctors FROM seller_payments WHERE seller_id = ? AND period = ?`,
		sellerID, "Julio 2024",
	).Scan(&included).Error; err != nil {
		t.Fatalf("fetch Julio breakdown: %v", err)
	}
	var breakdown []sellerpaymentdomain.IncludedDoctor
	if err := json.Unmarshal([]byte(included), &breakdown); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected two doctors in the breakdown, got %d", len(breakdown))
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM doctors WHERE status = ?`, doctordomain.StatusInactive); got != 0 {
		t.Fatalf("no doctor should be suspended on July 5, got %d", got)
	}

	// Advance to July 7, the day after the cycle end.
	for fakeClock.Now().In(caracas).Day() != 7 {
		fakeClock.Advance(24 * time.Hour)
	}
	if err := sched.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce on July 7: %v", err)
	}

	var delinquent doctordomain.Doctor
	if err := db.Raw(`SELECT id, status, subscription_status FROM doctors WHERE id = ?`, delinquentID).Scan(&delinquent).Error; err != nil {
		t.Fatalf("fetch delinquent doctor: %v", err)
	}
	if delinquent.Status != doctordomain.StatusInactive || delinquent.SubscriptionStatus != doctordomain.SubscriptionInactive {
		t.Fatalf("expected delinquent doctor suspended, got status=%q subscription=%q", delinquent.Status, delinquent.SubscriptionStatus)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM inactivation_logs WHERE doctor_id = ?`, delinquentID); got != 1 {
		t.Fatalf("expected exactly one inactivation log, got %d", got)
	}
	var loggedName string
	if err := db.Raw(`SELECT doctor_name FROM inactivation_logs WHERE doctor_id = ?`, delinquentID).Scan(&loggedName).Error; err != nil {
		t.Fatalf("fetch logged name: %v", err)
	}
	if loggedName != "Doctor "+delinquentID.String() {
		t.Fatalf("expected the doctor name on the log, got %q", loggedName)
	}

	var paid doctordomain.Doctor
	if err := db.Raw(`SELECT id, status FROM doctors WHERE id = ?`, paidID).Scan(&paid).Error; err != nil {
		t.Fatalf("fetch paid doctor: %v", err)
	}
	if paid.Status != doctordomain.StatusActive {
		t.Fatalf("doctor paid ahead must stay active, got %q", paid.Status)
	}

	// Same-day rerun: the day claim and the pending-period guard make it
	// a no-op.
	if err := sched.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce rerun on July 7: %v", err)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM inactivation_logs WHERE doctor_id = ?`, delinquentID); got != 1 {
		t.Fatalf("rerun must not append logs, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM seller_payments`); got != 1 {
		t.Fatalf("rerun must not create payments, got %d", got)
	}

	// Step into August: a new period accrues, without the suspended
	// doctor.
	for fakeClock.Now().In(caracas).Month() != time.August || fakeClock.Now().In(caracas).Day() != 2 {
		fakeClock.Advance(24 * time.Hour)
		if err := sched.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce at %v: %v", fakeClock.Now(), err)
		}
	}

	var agosto struct {
		Amount float64
		Status string
	}
	if err := db.Raw(
		`SELECT amount, status FROM seller_payments WHERE seller_id = ? AND period = ?`,
		sellerID, "Agosto 2024",
	).Scan(&agosto).Error; err != nil {
		t.Fatalf("fetch Agosto payment: %v", err)
	}
	if agosto.Status != "pending" {
		t.Fatalf("expected Agosto payment pending, got %q", agosto.Status)
	}
	if want := 75 * 0.2; math.Abs(agosto.Amount-want) > 1e-9 {
		t.Fatalf("expected Agosto amount %v (suspended doctor excluded), got %v", want, agosto.Amount)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM seller_payments`); got != 2 {
		t.Fatalf("expected two seller payments (Julio, Agosto), got %d", got)
	}
}

// TestPaymentRolloverAdvancesClampedMonth runs the rollover job in
// isolation on a rolled trigger day (cycle end 31 firing February 1).
func TestPaymentRolloverAdvancesClampedMonth(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()
	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{ServiceName: "medicita", Environment: "test"})

	db := newTestDB(t)

	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.February, 1, 7, 0, 0, 0, caracas))

	sched, node := newTestScheduler(t, db, fakeClock)
	seedSettings(t, db, node, 31, 0.2)

	sellerID := node.Generate()
	seedSeller(t, db, sellerID, sellerdomain.StatusActive)

	anchoredID := node.Generate()
	janEnd := time.Date(2024, time.January, 31, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, anchoredID, sellerID, "Caracas", &janEnd)

	offAnchorID := node.Generate()
	offAnchor := time.Date(2024, time.February, 6, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, offAnchorID, sellerID, "Caracas", &offAnchor)

	if err := sched.PaymentRolloverJob(context.Background()); err != nil {
		t.Fatalf("PaymentRolloverJob: %v", err)
	}

	var next time.Time
	if err := db.Raw(`SELECT next_payment_date FROM doctors WHERE id = ?`, anchoredID).Scan(&next).Error; err != nil {
		t.Fatalf("fetch advanced date: %v", err)
	}
	y, m, d := next.In(caracas).Date()
	if y != 2024 || m != time.February || d != 29 {
		t.Fatalf("expected Jan 31 to clamp to Feb 29 in a leap year, got %v", next)
	}

	var untouched time.Time
	if err := db.Raw(`SELECT next_payment_date FROM doctors WHERE id = ?`, offAnchorID).Scan(&untouched).Error; err != nil {
		t.Fatalf("fetch off-anchor date: %v", err)
	}
	uy, um, ud := untouched.In(caracas).Date()
	if uy != 2024 || um != time.February || ud != 6 {
		t.Fatalf("off-anchor doctor must not move, got %v", untouched)
	}
}

// TestJobsNoOpWhenSettingsMissing checks that all three jobs warn and
// exit with zero writes when the settings row is absent.
func TestJobsNoOpWhenSettingsMissing(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()
	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{ServiceName: "medicita", Environment: "test"})

	db := newTestDB(t)

	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.July, 7, 7, 0, 0, 0, caracas))

	sched, node := newTestScheduler(t, db, fakeClock)

	sellerID := node.Generate()
	seedSeller(t, db, sellerID, sellerdomain.StatusActive)
	doctorID := node.Generate()
	lapsed := time.Date(2024, time.June, 6, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, doctorID, sellerID, "Caracas", &lapsed)
	seedPaidDoctorPayment(t, db, node, doctorID, 50)

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce without settings: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(1) FROM seller_payments`); got != 0 {
		t.Fatalf("expected zero seller payments, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM inactivation_logs`); got != 0 {
		t.Fatalf("expected zero inactivation logs, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM scheduler_job_runs`); got != 0 {
		t.Fatalf("expected zero job day claims, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM doctors WHERE status = ?`, doctordomain.StatusInactive); got != 0 {
		t.Fatalf("expected doctor untouched, got %d inactive", got)
	}
}

// TestAccrualSkipsInactiveSellers verifies only active sellers accrue
// commissions.
func TestAccrualSkipsInactiveSellers(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()
	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{ServiceName: "medicita", Environment: "test"})

	db := newTestDB(t)

	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.July, 10, 7, 0, 0, 0, caracas))

	sched, node := newTestScheduler(t, db, fakeClock)
	seedSettings(t, db, node, 6, 0.2)
	seedCityFee(t, db, node, "Caracas", 50)

	inactiveSellerID := node.Generate()
	seedSeller(t, db, inactiveSellerID, sellerdomain.StatusInactive)

	activeSellerID := node.Generate()
	seedSeller(t, db, activeSellerID, sellerdomain.StatusActive)
	doctorID := node.Generate()
	anchor := time.Date(2024, time.August, 6, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, doctorID, activeSellerID, "Caracas", &anchor)
	seedPaidDoctorPayment(t, db, node, doctorID, 50)

	if err := sched.CommissionAccrualJob(context.Background()); err != nil {
		t.Fatalf("CommissionAccrualJob: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(1) FROM seller_payments WHERE seller_id = ?`, activeSellerID); got != 1 {
		t.Fatalf("expected one payment for the active seller, got %d", got)
	}
	if got := countRows(t, db, `SELECT COUNT(1) FROM seller_payments`); got != 1 {
		t.Fatalf("expected no payment for the inactive seller, got %d total", got)
	}
}

// TestAccrualSkipsZeroCommission covers sellers whose referrals all live
// in cities without a fee anywhere: no zero-amount payment is created.
func TestAccrualSkipsZeroCommission(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()
	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{ServiceName: "medicita", Environment: "test"})

	db := newTestDB(t)

	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.July, 10, 7, 0, 0, 0, caracas))

	sched, node := newTestScheduler(t, db, fakeClock)
	seedSettings(t, db, node, 6, 0.2)

	sellerID := node.Generate()
	seedSeller(t, db, sellerID, sellerdomain.StatusActive)
	doctorID := node.Generate()
	anchor := time.Date(2024, time.August, 6, 0, 0, 0, 0, caracas)
	seedDoctor(t, db, doctorID, sellerID, "Pueblo Sin Tarifa", &anchor)
	seedPaidDoctorPayment(t, db, node, doctorID, 50)

	if err := sched.CommissionAccrualJob(context.Background()); err != nil {
		t.Fatalf("CommissionAccrualJob: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(1) FROM seller_payments`); got != 0 {
		t.Fatalf("expected no payment when the commission is zero, got %d", got)
	}
}

// TestClaimJobDayInsertsAndDedupes exercises the claim insert against
// the same column set the migration creates.
func TestClaimJobDayInsertsAndDedupes(t *testing.T) {
	registry := prometheus.NewRegistry()
	restore := swapPrometheusRegistry(registry)
	defer restore()
	obsmetrics.ResetSchedulerMetricsForTest()
	obsmetrics.SchedulerWithConfig(obsmetrics.Config{ServiceName: "medicita", Environment: "test"})

	db := newTestDB(t)

	caracas, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.July, 7, 7, 0, 0, 0, caracas))

	sched, _ := newTestScheduler(t, db, fakeClock)

	day := time.Date(2024, time.July, 7, 0, 0, 0, 0, caracas)
	claimed, err := sched.claimJobDay(context.Background(), JobDoctorSuspension, day)
	if err != nil {
		t.Fatalf("claimJobDay: %v", err)
	}
	if !claimed {
		t.Fatalf("first claim of the day must win")
	}

	again, err := sched.claimJobDay(context.Background(), JobDoctorSuspension, day)
	if err != nil {
		t.Fatalf("claimJobDay rerun: %v", err)
	}
	if again {
		t.Fatalf("second claim of the same day must lose")
	}

	var claimedAt *time.Time
	if err := db.Raw(`SELECT claimed_at FROM scheduler_job_runs WHERE job = ?`, JobDoctorSuspension).Scan(&claimedAt).Error; err != nil {
		t.Fatalf("fetch claim row: %v", err)
	}
	if claimedAt == nil {
		t.Fatalf("expected the claim timestamp to be recorded")
	}
}
