// Package server exposes the HTTP surface: the notification webhook, the
// credential-gated administrative data operations, and the read-only
// reporting dumps.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rfcarvalho/gastos/internal/common"
	"github.com/rfcarvalho/gastos/internal/notify"
	"github.com/rfcarvalho/gastos/internal/pipeline"
	"github.com/rfcarvalho/gastos/internal/service"
)

// Config carries the server's collaborators and settings.
type Config struct {
	Store       service.Storage
	Resolver    *notify.UserResolver
	Credentials Credentials
}

// Server holds the handlers behind the HTTP surface.
type Server struct {
	store     service.Storage
	processor *pipeline.Processor
	creds     Credentials
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg Config) *gin.Engine {
	s := &Server{
		store:     cfg.Store,
		processor: pipeline.New(cfg.Store, cfg.Resolver),
		creds:     cfg.Credentials,
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API Gastos online ✅")
	})
	r.POST("/notificacaos", s.handleNotification)

	admin := r.Group("/admin", RequireCredentials(s.creds))
	{
		admin.GET("/gastos", s.handleListExpenses)
		admin.GET("/gastos/verificar", s.handleReviewExpenses)
		admin.GET("/gastos/:id", s.handleGetExpense)
		admin.PATCH("/gastos/:id", s.handleUpdateExpense)

		admin.GET("/categorias", s.handleListRules)
		admin.POST("/categorias", s.handleAddRule)
		admin.PUT("/categorias/:id", s.handleUpdateRule)
		admin.DELETE("/categorias/:id", s.handleDeleteRule)
		admin.DELETE("/categorias/grupo/:nome", s.handleDeleteGroup)

		admin.POST("/operacoes/resync", s.handleResync)
		admin.POST("/operacoes/recategorizar", s.handleRecategorize)
		admin.POST("/operacoes/harmonizar", s.handleHarmonize)
	}

	relatorio := r.Group("/relatorio")
	{
		relatorio.GET("/gastos", s.handleReportExpenses)
		relatorio.GET("/categorias", s.handleReportRules)
	}

	return r
}

// storageError maps a storage failure onto an HTTP response. Lock-contention
// timeouts are retryable by the caller, so they get 503 instead of 500.
func storageError(c *gin.Context, err error) {
	slog.Error("storage operation failed", "path", c.FullPath(), "error", err)
	status := http.StatusInternalServerError
	if common.IsRetryable(err) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"erro": err.Error()})
}
