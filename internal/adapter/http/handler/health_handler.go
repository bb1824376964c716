package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/database"
	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// readyCheckTimeout bounds each dependency check of /ready
const readyCheckTimeout = 5 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	usecase usecase.PredictUsecase
	db      *gorm.DB
	redis   *redis.Client
}

// NewHealthHandler creates a new health handler.
// db and redis are optional; they are only set when labels come from them.
func NewHealthHandler(uc usecase.PredictUsecase, db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{
		usecase: uc,
		db:      db,
		redis:   redis,
	}
}

// ReadyStatus represents the readiness response
type ReadyStatus struct {
	Status     string            `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health. It always answers 200; the body reports whether models are loaded.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Health(c.Request.Context()))
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
	defer cancel()

	components := make(map[string]string)
	reason := ""

	if err := h.usecase.Ready(ctx); err != nil {
		components["models"] = "error: " + err.Error()
		reason = err.Error()
	} else {
		components["models"] = "ok"
	}

	// Check database
	if h.db != nil {
		if err := database.Ping(ctx, h.db, readyCheckTimeout); err != nil {
			components["database"] = "error: " + err.Error()
			if reason == "" {
				reason = "database unreachable"
			}
		} else {
			components["database"] = "ok"
		}
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "error: " + err.Error()
			if reason == "" {
				reason = "redis unreachable"
			}
		} else {
			components["redis"] = "ok"
		}
	}

	if reason != "" {
		c.JSON(http.StatusServiceUnavailable, ReadyStatus{Status: "not ready", Reason: reason, Components: components})
		return
	}
	c.JSON(http.StatusOK, ReadyStatus{Status: "ready", Components: components})
}
