package services

import (
	"context"
	"time"

	"github.com/cppla/consigliere/models"
)

// Dashboard is the landing-page view for a user.
type Dashboard struct {
	HasCheckedInToday bool               `json:"has_checked_in_today"`
	TodayCheckIn      *models.CheckIn    `json:"today_check_in"`
	Streak            *models.Streak     `json:"streak"`
	DailyQuote        *models.DailyQuote `json:"daily_quote"`
}

// DashboardService composes today's check-in, the displayed streak and the daily quote.
type DashboardService struct {
	checkIns *CheckInService
	streaks  *StreakService
	quotes   *QuoteService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(checkIns *CheckInService, streaks *StreakService, quotes *QuoteService) *DashboardService {
	return &DashboardService{checkIns: checkIns, streaks: streaks, quotes: quotes}
}

// Get builds the dashboard for today.
func (s *DashboardService) Get(ctx context.Context, userID uint, today time.Time) (*Dashboard, error) {
	checkIn, err := s.checkIns.GetCheckIn(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	streak, err := s.streaks.GetStreakForDisplay(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	quote, err := s.quotes.GetDailyQuote(ctx, today)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		HasCheckedInToday: checkIn != nil,
		TodayCheckIn:      checkIn,
		Streak:            streak,
		DailyQuote:        quote,
	}, nil
}
