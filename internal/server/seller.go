package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type createSellerRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	CommissionRate float64 `json:"commission_rate"`
}

func (s *Server) CreateSeller(c *gin.Context) {
	var req createSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sellerSvc.Create(c.Request.Context(), sellerdomain.CreateSellerRequest{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSellers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sellerSvc.List(c.Request.Context(), sellerdomain.ListSellerRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSellerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.sellerSvc.GetByID(c.Request.Context(), sellerdomain.GetSellerRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSellerRequest struct {
	Phone          string   `json:"phone"`
	Status         string   `json:"status"`
	CommissionRate *float64 `json:"commission_rate"`
}

func (s *Server) UpdateSeller(c *gin.Context) {
	var req updateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sellerSvc.Update(c.Request.Context(), sellerdomain.UpdateSellerRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Phone:          strings.TrimSpace(req.Phone),
		Status:         strings.TrimSpace(req.Status),
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
