package router

import (
	"time"

	"esg-retrofit-workers/internal/server/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// New wires the Gin engine with the health, metrics and portfolio routes.
func New(health *handlers.HealthHandler, portfolio *handlers.PortfolioHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/health", health.Live)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/properties", portfolio.ListProperties)
		v1.GET("/properties/:id/scores", portfolio.GetScores)
		v1.POST("/properties/:id/projection", portfolio.ProjectRetrofit)
		v1.GET("/targets/progress", portfolio.TargetProgress)
		v1.GET("/retrofits", portfolio.ListRetrofits)
	}

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

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
