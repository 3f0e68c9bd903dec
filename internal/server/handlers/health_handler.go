package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Checker is a dependency probed by the readiness endpoint.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checkers []Checker
	timeout  time.Duration
	logger   *zap.Logger
}

func NewHealthHandler(logger *zap.Logger, checkers ...Checker) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{checkers: checkers, timeout: 3 * time.Second, logger: logger}
}

// Live always answers ok while the process serves requests.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings every dependency and answers 503 when any of them fails.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checkers))
	for _, checker := range h.checkers {
		if err := checker.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("dependency", checker.Name()), zap.Error(err))
			results[checker.Name()] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[checker.Name()] = "ok"
	}

	overall := "ready"
	if status != http.StatusOK {
		overall = "not ready"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
