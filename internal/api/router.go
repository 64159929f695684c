// Package api wires the HTTP surface: routes, middleware and handlers.
package api

import (
	"log/slog"
	"net/http"

	"imbalance-report/internal/api/handlers"
	"imbalance-report/internal/api/middleware"
	"imbalance-report/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Options configures NewRouter. Archive and Metrics may be nil.
type Options struct {
	Source      handlers.Source
	Archive     handlers.Archive
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	CORSOrigins []string
	Currency    string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(middleware.ErrorHandler(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger(opts.Logger, opts.Metrics))

	reportHandler := handlers.NewReportHandler(opts.Source, opts.Archive, opts.Metrics, opts.Logger, opts.Currency)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"archive": opts.Archive != nil,
		})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/report", reportHandler.GetReport)
		v1.POST("/report", reportHandler.ComposeReport)

		v1.GET("/reports", reportHandler.ListReports)
		v1.GET("/reports/:id", reportHandler.GetArchivedReport)

		v1.GET("/rank", reportHandler.RankDays)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
