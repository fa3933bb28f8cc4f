package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/medicita/internal/payment/domain"
)

type fakePaymentService struct {
	approveErr   error
	approveCalls int
	lastReviewID string
}

func (f *fakePaymentService) Create(ctx context.Context, req paymentdomain.CreatePaymentRequest) (paymentdomain.DoctorPayment, error) {
	_ = ctx
	if req.Amount <= 0 {
		return paymentdomain.DoctorPayment{}, paymentdomain.ErrInvalidAmount
	}
	return paymentdomain.DoctorPayment{Status: paymentdomain.StatusPending}, nil
}

func (f *fakePaymentService) List(ctx context.Context, req paymentdomain.ListPaymentRequest) (paymentdomain.ListPaymentResponse, error) {
	_ = ctx
	_ = req
	return paymentdomain.ListPaymentResponse{}, nil
}

func (f *fakePaymentService) Approve(ctx context.Context, req paymentdomain.ReviewPaymentRequest) (paymentdomain.DoctorPayment, error) {
	_ = ctx
	f.approveCalls++
	f.lastReviewID = req.ID
	if f.approveErr != nil {
		return paymentdomain.DoctorPayment{}, f.approveErr
	}
	return paymentdomain.DoctorPayment{Status: paymentdomain.StatusPaid}, nil
}

func (f *fakePaymentService) Reject(ctx context.Context, req paymentdomain.ReviewPaymentRequest) (paymentdomain.DoctorPayment, error) {
	_ = ctx
	_ = req
	return paymentdomain.DoctorPayment{Status: paymentdomain.StatusRejected}, nil
}

func newPaymentTestRouter(svc paymentdomain.Service) (*gin.Engine, *Server) {
	gin.SetMode(gin.TestMode)

	srv := &Server{paymentSvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/doctor-payments", srv.CreateDoctorPayment)
	router.POST("/v1/doctor-payments/:id/approve", srv.ApproveDoctorPayment)
	return router, srv
}

func TestApproveDoctorPaymentHandler(t *testing.T) {
	svc := &fakePaymentService{}
	router, _ := newPaymentTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/doctor-payments/12345/approve", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.approveCalls != 1 {
		t.Fatalf("expected 1 approve call, got %d", svc.approveCalls)
	}
	if svc.lastReviewID != "12345" {
		t.Fatalf("expected review id 12345, got %q", svc.lastReviewID)
	}
}

func TestApproveDoctorPaymentAlreadyReviewedReturns409(t *testing.T) {
	svc := &fakePaymentService{approveErr: paymentdomain.ErrAlreadyReviewed}
	router, _ := newPaymentTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/doctor-payments/12345/approve", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateDoctorPaymentValidation(t *testing.T) {
	svc := &fakePaymentService{}
	router, _ := newPaymentTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/doctor-payments", bytes.NewBufferString(`{"doctor_id":"1","amount":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRunSchedulerWithoutSchedulerReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/scheduler/run", srv.RunSchedulerNow)

	req := httptest.NewRequest(http.MethodPost, "/v1/scheduler/run", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", resp.Code, resp.Body.String())
	}
}
