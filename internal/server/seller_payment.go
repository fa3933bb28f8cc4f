package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	sellerpaymentdomain "github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

func (s *Server) ListSellerPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		SellerID string `form:"seller_id"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sellerPaymentSvc.List(c.Request.Context(), sellerpaymentdomain.ListSellerPaymentRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		SellerID:  strings.TrimSpace(query.SellerID),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSellerPaymentByID(c *gin.Context) {
	resp, err := s.sellerPaymentSvc.Get(c.Request.Context(), sellerpaymentdomain.GetSellerPaymentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type markSellerPaymentPaidRequest struct {
	ProofURL      string `json:"proof_url"`
	TransactionID string `json:"transaction_id"`
}

func (s *Server) MarkSellerPaymentPaid(c *gin.Context) {
	var req markSellerPaymentPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sellerPaymentSvc.MarkPaid(c.Request.Context(), sellerpaymentdomain.MarkPaidRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		ProofURL:      strings.TrimSpace(req.ProofURL),
		TransactionID: strings.TrimSpace(req.TransactionID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkSellerPaymentRead(c *gin.Context) {
	resp, err := s.sellerPaymentSvc.MarkRead(c.Request.Context(), sellerpaymentdomain.MarkReadRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
