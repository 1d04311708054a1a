package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rfcarvalho/gastos/internal/common"
	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/service"
	"github.com/rfcarvalho/gastos/internal/storage"
)

// expenseJSON is the wire form of an expense row, keeping the stored column
// names the reporting consumers already rely on.
type expenseJSON struct {
	Date        *string  `json:"data"`
	Category    *string  `json:"categoria"`
	Amount      *float64 `json:"valor"`
	Description string   `json:"descricao"`
	User        string   `json:"usuario"`
	ID          int64    `json:"id"`
}

func toExpenseJSON(e model.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Date:        e.Date,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		User:        e.User,
	}
}

func toExpenseList(expenses []model.Expense) []expenseJSON {
	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseJSON(e)
	}
	return out
}

type ruleJSON struct {
	Keyword  string `json:"palavra_chave"`
	Category string `json:"categoria"`
	ID       int64  `json:"id"`
}

func toRuleList(rules []model.CategoryRule) []ruleJSON {
	out := make([]ruleJSON, len(rules))
	for i, r := range rules {
		out[i] = ruleJSON{ID: r.ID, Keyword: r.Keyword, Category: r.Category}
	}
	return out
}

// operator names the authenticated admin for audit logs.
func operator(c *gin.Context) string {
	session, _ := CurrentSession(c)
	return session.User
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "id invalido"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Server) handleGetExpense(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	expense, err := s.store.GetExpenseByID(c.Request.Context(), id)
	if err != nil {
		storageError(c, err)
		return
	}
	if expense == nil {
		c.JSON(http.StatusNotFound, gin.H{"erro": "gasto nao encontrado"})
		return
	}
	c.JSON(http.StatusOK, toExpenseJSON(*expense))
}

func (s *Server) handleListExpenses(c *gin.Context) {
	start := queryInt(c, "start", 1)
	end := queryInt(c, "end", start+99)
	filter := service.RangeFilter{
		Limit:  int(queryInt(c, "limit", 50)),
		Offset: int(queryInt(c, "offset", 0)),
		Order:  c.DefaultQuery("order", "DESC"),
	}

	expenses, err := s.store.GetExpensesByIDRange(c.Request.Context(), start, end, filter)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidRange) || errors.Is(err, storage.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
			return
		}
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseList(expenses))
}

func (s *Server) handleReviewExpenses(c *gin.Context) {
	limit := int(queryInt(c, "limit", 500))
	expenses, err := s.store.GetExpensesNeedingReview(c.Request.Context(), limit)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseList(expenses))
}

type updateExpenseReq struct {
	Description *string `json:"descricao"`
	Category    *string `json:"categoria"`
}

func (s *Server) handleUpdateExpense(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo JSON invalido: " + err.Error()})
		return
	}

	changes := make(map[string]string)
	if req.Description != nil {
		changes["descricao"] = *req.Description
	}
	if req.Category != nil {
		changes["categoria"] = *req.Category
	}
	if len(changes) == 0 {
		c.JSON(http.StatusOK, gin.H{"atualizados": 0})
		return
	}

	affected, err := s.store.UpdateExpenseFields(c.Request.Context(), id, changes)
	if err != nil {
		if errors.Is(err, storage.ErrFieldNotEditable) {
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
			return
		}
		storageError(c, err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"erro": "gasto nao encontrado"})
		return
	}
	slog.Info("expense edited", "id", id, "operator", operator(c))
	c.JSON(http.StatusOK, gin.H{"atualizados": affected})
}

func (s *Server) handleListRules(c *gin.Context) {
	rules, err := s.store.GetCategoryRules(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRuleList(rules))
}

type ruleReq struct {
	Keyword  string `json:"palavra_chave" binding:"required"`
	Category string `json:"categoria" binding:"required"`
}

func (s *Server) handleAddRule(c *gin.Context) {
	var req ruleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo JSON invalido: " + err.Error()})
		return
	}

	err := s.store.AddCategoryRule(c.Request.Context(), req.Keyword, req.Category)
	if err != nil {
		if errors.Is(err, common.ErrBlockedCategory) || errors.Is(err, common.ErrKeywordTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"erro": err.Error()})
			return
		}
		storageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (s *Server) handleUpdateRule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ruleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "corpo JSON invalido: " + err.Error()})
		return
	}

	err := s.store.UpdateCategoryRule(c.Request.Context(), id, req.Keyword, req.Category)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "palavra chave nao encontrada"})
			return
		}
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDeleteRule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	err := s.store.DeleteCategoryRule(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"erro": "palavra chave nao encontrada"})
			return
		}
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDeleteGroup(c *gin.Context) {
	name := c.Param("nome")
	reclassify := c.DefaultQuery("reclassificar", "true") == "true"

	removed, err := s.store.DeleteCategoryGroup(c.Request.Context(), name, reclassify)
	if err != nil {
		storageError(c, err)
		return
	}
	slog.Info("category group deleted",
		"category", name,
		"removed", removed,
		"operator", operator(c))
	c.JSON(http.StatusOK, gin.H{"removidas": removed})
}

func (s *Server) handleResync(c *gin.Context) {
	updated, err := s.store.ResyncExpenses(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"atualizados": updated})
}

func (s *Server) handleRecategorize(c *gin.Context) {
	changed, err := s.store.RecategorizeAll(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"atualizados": changed})
}

func (s *Server) handleHarmonize(c *gin.Context) {
	added, skipped, err := s.store.HarmonizeCategories(c.Request.Context())
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"adicionadas": added, "ignoradas": skipped})
}
