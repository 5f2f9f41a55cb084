package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

// AnalyticsController provides weekly and monthly learning statistics.
type AnalyticsController struct {
	users     *services.UserService
	analytics *services.AnalyticsService
	clock     services.Clock
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(users *services.UserService, analytics *services.AnalyticsService, clock services.Clock) *AnalyticsController {
	return &AnalyticsController{users: users, analytics: analytics, clock: clock}
}

// Weekly summarises the current Monday-to-Sunday week.
func (a *AnalyticsController) Weekly(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	user, err := a.users.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err, 50060, "failed to load user")
		return
	}

	summary, err := a.analytics.WeeklySummary(ctx.Request.Context(), user, a.clock.Today())
	if err != nil {
		respondServiceError(ctx, err, 50061, "failed to compute weekly summary")
		return
	}
	utils.Success(ctx, summary)
}

// Monthly summarises ?month=&year=, defaulting to the current month.
func (a *AnalyticsController) Monthly(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	today := a.clock.Today()
	month, err := queryInt(ctx, "month", int(today.Month()))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "month must be an integer")
		return
	}
	year, err := queryInt(ctx, "year", today.Year())
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "year must be an integer")
		return
	}

	user, err := a.users.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err, 50060, "failed to load user")
		return
	}
	summary, err := a.analytics.MonthlySummary(ctx.Request.Context(), user, month, year)
	if err != nil {
		respondServiceError(ctx, err, 50062, "failed to compute monthly summary")
		return
	}
	utils.Success(ctx, summary)
}
