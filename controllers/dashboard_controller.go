package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

type DashboardController struct {
	dashboard *services.DashboardService
	clock     services.Clock
}

func NewDashboardController(dashboard *services.DashboardService, clock services.Clock) *DashboardController {
	return &DashboardController{dashboard: dashboard, clock: clock}
}

// Get returns today's check-in state, streak and quote in one payload.
func (d *DashboardController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	dashboard, err := d.dashboard.Get(ctx.Request.Context(), userID, d.clock.Today())
	if err != nil {
		respondServiceError(ctx, err, 50070, "failed to load dashboard")
		return
	}
	utils.Success(ctx, dashboard)
}
