package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/consigliere/utils"
)

// HealthController answers liveness and readiness probes.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health reports that the process is up.
func (h *HealthController) Health(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// Ready reports whether the database answers a ping.
func (h *HealthController) Ready(ctx *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		utils.Sugar.Warnw("readiness check failed", "error", err)
		utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database not ready")
		return
	}
	utils.Success(ctx, gin.H{"status": "ready", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}
