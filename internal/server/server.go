// Package server exposes the categorization engine and its stores over HTTP.
// Authentication is an external concern: the server trusts the tenant
// identifier supplied in the X-Tenant-ID header.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/engine"
	"github.com/juanfelareal/tranki/internal/extract"
	"github.com/juanfelareal/tranki/internal/service"

	"github.com/gin-gonic/gin"
)

const tenantHeader = "X-Tenant-ID"

// Server wires the HTTP handlers to the storage and engine layers.
type Server struct {
	store     service.Storage
	engine    *engine.Engine
	extractor extract.Extractor
}

// New creates a server. The extractor may be nil, in which case the
// image-extraction endpoint reports that it is not configured.
func New(store service.Storage, eng *engine.Engine, extractor extract.Extractor) *Server {
	return &Server{
		store:     store,
		engine:    eng,
		extractor: extractor,
	}
}

// Router builds the gin router with all API routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api", tenantRequired())
	{
		categories := api.Group("/categories")
		{
			categories.GET("", s.listCategories)
			categories.POST("", s.createCategory)
			categories.GET("/stats/spending", s.spendingStats)
			categories.GET("/:id", s.getCategory)
			categories.PUT("/:id", s.updateCategory)
			categories.DELETE("/:id", s.deleteCategory)
		}

		rules := api.Group("/rules")
		{
			rules.GET("", s.listRules)
			rules.POST("", s.createRule)
			rules.DELETE("/:id", s.deleteRule)
			rules.POST("/match", s.matchRule)
			rules.POST("/bulk-match", s.bulkMatchRules)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("", s.listTransactions)
			transactions.POST("", s.saveTransactions)
		}

		api.POST("/ai/parse-image", s.parseImage)
	}

	return router
}

// tenantRequired rejects requests without a tenant identifier and stashes it
// in the request context for the handlers.
func tenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(tenantHeader)
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + tenantHeader + " header",
			})
			return
		}
		c.Set("tenant", tenantID)
		c.Next()
	}
}

// tenant returns the tenant identifier set by the middleware.
func tenant(c *gin.Context) string {
	return c.GetString("tenant")
}

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"tenant", tenant(c))
	}
}

// respondError maps application error kinds to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrConstraintViolation):
		status = http.StatusConflict
	case errors.Is(err, common.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, common.ErrMissingConfig):
		status = http.StatusNotImplemented
	}

	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		common.LogError(err, "request failed", common.Fields{
			"path": c.Request.URL.Path,
		})
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
