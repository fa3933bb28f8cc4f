package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	settingsdomain "github.com/smallbiznis/medicita/internal/settings/domain"
)

type updateSettingsRequest struct {
	CycleEndDay    int     `json:"cycle_end_day"`
	CommissionRate float64 `json:"commission_rate"`
	Timezone       string  `json:"timezone"`
}

func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settingsSvc.Update(c.Request.Context(), settingsdomain.UpdateSettingsRequest{
		CycleEndDay:    req.CycleEndDay,
		CommissionRate: req.CommissionRate,
		Timezone:       strings.TrimSpace(req.Timezone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCityFees(c *gin.Context) {
	fees, err := s.settingsSvc.ListCityFees(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fees})
}

type setCityFeeRequest struct {
	City       string  `json:"city"`
	MonthlyFee float64 `json:"monthly_fee"`
}

func (s *Server) SetCityFee(c *gin.Context) {
	var req setCityFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settingsSvc.SetCityFee(c.Request.Context(), settingsdomain.SetCityFeeRequest{
		City:       strings.TrimSpace(req.City),
		MonthlyFee: req.MonthlyFee,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
