package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/medicita/internal/payment/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type createDoctorPaymentRequest struct {
	DoctorID  string  `json:"doctor_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

func (s *Server) CreateDoctorPayment(c *gin.Context) {
	var req createDoctorPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		DoctorID:  strings.TrimSpace(req.DoctorID),
		Amount:    req.Amount,
		Method:    strings.TrimSpace(req.Method),
		Reference: strings.TrimSpace(req.Reference),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDoctorPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DoctorID string `form:"doctor_id"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		DoctorID:  strings.TrimSpace(query.DoctorID),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ApproveDoctorPayment(c *gin.Context) {
	resp, err := s.paymentSvc.Approve(c.Request.Context(), paymentdomain.ReviewPaymentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RejectDoctorPayment(c *gin.Context) {
	resp, err := s.paymentSvc.Reject(c.Request.Context(), paymentdomain.ReviewPaymentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
