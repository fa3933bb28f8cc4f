package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type createDoctorRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	City      string `json:"city"`
	Specialty string `json:"specialty"`
	SellerID  string `json:"seller_id"`
}

func (s *Server) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.doctorSvc.Create(c.Request.Context(), doctordomain.CreateDoctorRequest{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		City:      strings.TrimSpace(req.City),
		Specialty: strings.TrimSpace(req.Specialty),
		SellerID:  strings.TrimSpace(req.SellerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDoctors(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status   string `form:"status"`
		City     string `form:"city"`
		SellerID string `form:"seller_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.doctorSvc.List(c.Request.Context(), doctordomain.ListDoctorRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
		City:      strings.TrimSpace(query.City),
		SellerID:  strings.TrimSpace(query.SellerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDoctorByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.doctorSvc.GetByID(c.Request.Context(), doctordomain.GetDoctorRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateDoctorRequest struct {
	Status          string `json:"status"`
	City            string `json:"city"`
	Specialty       string `json:"specialty"`
	NextPaymentDate string `json:"next_payment_date"`
}

func (s *Server) UpdateDoctor(c *gin.Context) {
	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	nextPaymentDate, err := parseOptionalTime(req.NextPaymentDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("next_payment_date", "invalid_next_payment_date", "invalid next_payment_date"))
		return
	}

	resp, err := s.doctorSvc.Update(c.Request.Context(), doctordomain.UpdateDoctorRequest{
		ID:              strings.TrimSpace(c.Param("id")),
		Status:          strings.TrimSpace(req.Status),
		City:            strings.TrimSpace(req.City),
		Specialty:       strings.TrimSpace(req.Specialty),
		NextPaymentDate: nextPaymentDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
