package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	inactivationdomain "github.com/smallbiznis/medicita/internal/inactivation/domain"
	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

func (s *Server) ListInactivationLogs(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DoctorID string `form:"doctor_id"`
		Origin   string `form:"origin"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inactivationSvc.List(c.Request.Context(), inactivationdomain.ListLogRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		DoctorID:  strings.TrimSpace(query.DoctorID),
		Origin:    strings.TrimSpace(query.Origin),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
