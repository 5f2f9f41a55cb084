package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

// StreakController exposes the user's streak as the dashboard shows it.
type StreakController struct {
	streaks *services.StreakService
	clock   services.Clock
}

// NewStreakController creates a new StreakController.
func NewStreakController(streaks *services.StreakService, clock services.Clock) *StreakController {
	return &StreakController{streaks: streaks, clock: clock}
}

// Get returns the streak, breaking it first when yesterday was missed.
func (s *StreakController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	streak, err := s.streaks.GetStreakForDisplay(ctx.Request.Context(), userID, s.clock.Today())
	if err != nil {
		respondServiceError(ctx, err, 50040, "failed to load streak")
		return
	}
	utils.Success(ctx, streak)
}
