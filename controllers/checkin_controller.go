package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/metrics"
	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

// CheckInController handles the daily check-in endpoints.
type CheckInController struct {
	checkIns *services.CheckInService
	clock    services.Clock
}

// NewCheckInController creates a new controller instance.
func NewCheckInController(checkIns *services.CheckInService, clock services.Clock) *CheckInController {
	return &CheckInController{checkIns: checkIns, clock: clock}
}

// Create records today's check-in and advances the streak.
func (c *CheckInController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req struct {
		PagesRead     *int    `json:"pages_read" binding:"required"`
		VideosWatched *int    `json:"videos_watched" binding:"required"`
		Notes         *string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	// notes are stored exactly as written; clients escape them on display
	in := services.CheckInInput{PagesRead: *req.PagesRead, VideosWatched: *req.VideosWatched, Notes: req.Notes}

	checkIn, streak, err := c.checkIns.RecordCheckIn(ctx.Request.Context(), userID, in, c.clock.Today())
	if err != nil {
		respondServiceError(ctx, err, 50020, "failed to record check-in")
		return
	}
	metrics.DailyCheckInsTotal.Inc()

	utils.Created(ctx, gin.H{
		"check_in": checkIn,
		"streak":   streak,
	})
}

// Today returns today's check-in, or 404 when the user has not checked in yet.
func (c *CheckInController) Today(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	checkIn, err := c.checkIns.GetCheckIn(ctx.Request.Context(), userID, c.clock.Today())
	if err != nil {
		respondServiceError(ctx, err, 50021, "failed to load check-in")
		return
	}
	if checkIn == nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "no check-in for today")
		return
	}
	utils.Success(ctx, checkIn)
}

// History lists recent check-ins, newest first.
func (c *CheckInController) History(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	limit, err := queryInt(ctx, "limit", 0)
	if err != nil || limit < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40021, "limit must be a positive integer")
		return
	}

	checkIns, err := c.checkIns.ListCheckIns(ctx.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(ctx, err, 50022, "failed to list check-ins")
		return
	}
	utils.Success(ctx, checkIns)
}
