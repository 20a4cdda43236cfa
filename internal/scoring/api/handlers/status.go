package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/config"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const traceIDKey = "trace_id"

func getTraceID(c *gin.Context) string {
	if traceID, ok := c.Get(traceIDKey); ok {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// HealthHandler handles health endpoint requests
type HealthHandler struct {
	logger    logging.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger logging.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
	}
}

// Health reports service liveness and which optional backends are configured
func (h *HealthHandler) Health(c *gin.Context) {
	h.logger.Debug("Health check", "trace_id", getTraceID(c))
	response := gin.H{
		"status":    "healthy",
		"service":   "tigerscore-scoring",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
		"components": gin.H{
			"scoring_model":       config.GetScoringModel(),
			"chain_configured":    config.IsChainConfigured(),
			"redis_configured":    config.IsRedisConfigured(),
			"database_configured": config.IsDatabaseConfigured(),
		},
	}

	c.JSON(http.StatusOK, response)
}
