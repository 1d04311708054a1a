package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The reporting surface gets bulk dumps only; filtering and aggregation
// happen in the consumer.

func (s *Server) handleReportExpenses(c *gin.Context) {
	expenses, err := s.store.GetAllExpenses(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseList(expenses))
}

func (s *Server) handleReportRules(c *gin.Context) {
	rules, err := s.store.GetCategoryRules(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRuleList(rules))
}
