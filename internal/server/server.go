package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/medicita/internal/config"
	"github.com/smallbiznis/medicita/internal/doctor"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	"github.com/smallbiznis/medicita/internal/inactivation"
	inactivationdomain "github.com/smallbiznis/medicita/internal/inactivation/domain"
	"github.com/smallbiznis/medicita/internal/observability"
	obsmiddleware "github.com/smallbiznis/medicita/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/medicita/internal/observability/metrics"
	obstracing "github.com/smallbiznis/medicita/internal/observability/tracing"
	"github.com/smallbiznis/medicita/internal/payment"
	paymentdomain "github.com/smallbiznis/medicita/internal/payment/domain"
	"github.com/smallbiznis/medicita/internal/scheduler"
	"github.com/smallbiznis/medicita/internal/seller"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
	"github.com/smallbiznis/medicita/internal/sellerpayment"
	sellerpaymentdomain "github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	"github.com/smallbiznis/medicita/internal/settings"
	settingsdomain "github.com/smallbiznis/medicita/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	settings.Module,
	seller.Module,
	doctor.Module,
	payment.Module,
	sellerpayment.Module,
	inactivation.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	settingsSvc      settingsdomain.Service
	sellerSvc        sellerdomain.Service
	doctorSvc        doctordomain.Service
	paymentSvc       paymentdomain.Service
	sellerPaymentSvc sellerpaymentdomain.Service
	inactivationSvc  inactivationdomain.Service

	scheduler *scheduler.Scheduler
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	SettingsSvc      settingsdomain.Service
	SellerSvc        sellerdomain.Service
	DoctorSvc        doctordomain.Service
	PaymentSvc       paymentdomain.Service
	SellerPaymentSvc sellerpaymentdomain.Service
	InactivationSvc  inactivationdomain.Service

	Scheduler *scheduler.Scheduler `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		db:               p.DB,
		genID:            p.GenID,
		settingsSvc:      p.SettingsSvc,
		sellerSvc:        p.SellerSvc,
		doctorSvc:        p.DoctorSvc,
		paymentSvc:       p.PaymentSvc,
		sellerPaymentSvc: p.SellerPaymentSvc,
		inactivationSvc:  p.InactivationSvc,
		scheduler:        p.Scheduler,
	}

	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Billing Settings --------
	v1.GET("/settings", s.GetSettings)
	v1.PUT("/settings", s.UpdateSettings)
	v1.GET("/settings/city-fees", s.ListCityFees)
	v1.PUT("/settings/city-fees", s.SetCityFee)

	// -------- Sellers --------
	v1.GET("/sellers", s.ListSellers)
	v1.POST("/sellers", s.CreateSeller)
	v1.GET("/sellers/:id", s.GetSellerByID)
	v1.PATCH("/sellers/:id", s.UpdateSeller)

	// -------- Doctors --------
	v1.GET("/doctors", s.ListDoctors)
	v1.POST("/doctors", s.CreateDoctor)
	v1.GET("/doctors/:id", s.GetDoctorByID)
	v1.PATCH("/doctors/:id", s.UpdateDoctor)

	// -------- Doctor Payments --------
	v1.GET("/doctor-payments", s.ListDoctorPayments)
	v1.POST("/doctor-payments", s.CreateDoctorPayment)
	v1.POST("/doctor-payments/:id/approve", s.ApproveDoctorPayment)
	v1.POST("/doctor-payments/:id/reject", s.RejectDoctorPayment)

	// -------- Seller Commission Payments --------
	v1.GET("/seller-payments", s.ListSellerPayments)
	v1.GET("/seller-payments/:id", s.GetSellerPaymentByID)
	v1.POST("/seller-payments/:id/mark-paid", s.MarkSellerPaymentPaid)
	v1.POST("/seller-payments/:id/mark-read", s.MarkSellerPaymentRead)

	// -------- Inactivation Logs --------
	v1.GET("/inactivation-logs", s.ListInactivationLogs)

	// -------- Scheduler --------
	v1.POST("/scheduler/run", s.RunSchedulerNow)
}
