package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/pipeline"
)

// handleNotification accepts one forwarded push notification. Best-effort,
// single HTTP accept: there is no delivery protocol beyond this handler, and
// retries are the sender's responsibility.
func (s *Server) handleNotification(c *gin.Context) {
	var n model.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo JSON invalido: " + err.Error()})
		return
	}

	outcome, err := s.processor.Process(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"erro": err.Error()})
		return
	}

	if outcome.Status == pipeline.StatusIgnored {
		c.JSON(http.StatusOK, gin.H{"status": "ignorado", "motivo": outcome.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
