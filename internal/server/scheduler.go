package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunSchedulerNow triggers one synchronous pass of the daily jobs. The
// per-day claims keep a manual trigger from double-applying effects.
func (s *Server) RunSchedulerNow(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if err := s.scheduler.RunOnce(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
