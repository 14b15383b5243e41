package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moradafish/dashboard/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.YieldHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.MaxMultipartMemory = 32 << 20

	api := r.Group("/api/yield")
	{
		api.GET("", handler.MonthView)
		api.GET("/approvals", handler.Approvals)
		api.GET("/workers", handler.Workers)
		api.POST("/header", handler.InferHeader)
		api.POST("/resolve", handler.ResolveName)

		api.POST("/imports", handler.ImportFile)
		api.POST("/imports/sheets", handler.ImportSheet)
		api.POST("/imports/:id/mapping", handler.ConfirmMapping)
		api.DELETE("/imports/:id", handler.CancelImport)

		api.POST("/entries", handler.CreateEntry)
		api.PUT("/entries/:key", handler.UpdateEntry)
		api.DELETE("/entries/:key", handler.DeleteEntry)

		api.POST("/reports", handler.PublishReport)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request completed", fields...)
	}
}
