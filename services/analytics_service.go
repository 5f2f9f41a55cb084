package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cppla/consigliere/models"
)

// WeeklySummary aggregates the Monday-to-Sunday week containing a date.
type WeeklySummary struct {
	WeekStart       time.Time `json:"week_start"`
	WeekEnd         time.Time `json:"week_end"`
	DaysCheckedIn   int       `json:"days_checked_in"`
	TotalPages      int       `json:"total_pages"`
	TotalVideos     int       `json:"total_videos"`
	GoalSuccessRate float64   `json:"goal_success_rate"`
	PagesGoal       int       `json:"pages_goal"`
	VideosGoal      int       `json:"videos_goal"`
}

// MonthlySummary aggregates one calendar month.
type MonthlySummary struct {
	Month               int     `json:"month"`
	Year                int     `json:"year"`
	TotalLearningDays   int     `json:"total_learning_days"`
	AveragePagesPerDay  float64 `json:"average_pages_per_day"`
	AverageVideosPerDay float64 `json:"average_videos_per_day"`
	BestStreak          int     `json:"best_streak"`
	PagesGoal           int     `json:"pages_goal"`
	VideosGoal          int     `json:"videos_goal"`
}

// AnalyticsService computes summaries from the ledger on every call.
type AnalyticsService struct {
	checkIns *CheckInService
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(checkIns *CheckInService) *AnalyticsService {
	return &AnalyticsService{checkIns: checkIns}
}

// WeeklySummary summarises the week that contains today.
func (s *AnalyticsService) WeeklySummary(ctx context.Context, user *models.User, today time.Time) (*WeeklySummary, error) {
	start, end := WeekBounds(today)
	entries, err := s.checkIns.checkInsBetween(ctx, user.ID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := &WeeklySummary{
		WeekStart:     start,
		WeekEnd:       end,
		DaysCheckedIn: len(entries),
		PagesGoal:     user.PagesGoal,
		VideosGoal:    user.VideosGoal,
	}
	successes := 0
	for _, c := range entries {
		summary.TotalPages += c.PagesRead
		summary.TotalVideos += c.VideosWatched
		if user.MeetsGoals(c.PagesRead, c.VideosWatched) {
			successes++
		}
	}
	if summary.DaysCheckedIn > 0 {
		summary.GoalSuccessRate = round1(float64(successes) / float64(summary.DaysCheckedIn) * 100)
	}
	return summary, nil
}

// MonthlySummary summarises the given month; month must be within 1..12.
func (s *AnalyticsService) MonthlySummary(ctx context.Context, user *models.User, month, year int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year out of range", ErrValidation)
	}

	start, next := MonthBounds(year, time.Month(month))
	entries, err := s.checkIns.checkInsBetween(ctx, user.ID, start, next)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Month:             month,
		Year:              year,
		TotalLearningDays: len(entries),
		BestStreak:        bestStreak(entries),
		PagesGoal:         user.PagesGoal,
		VideosGoal:        user.VideosGoal,
	}
	if n := len(entries); n > 0 {
		pages, videos := 0, 0
		for _, c := range entries {
			pages += c.PagesRead
			videos += c.VideosWatched
		}
		summary.AveragePagesPerDay = round1(float64(pages) / float64(n))
		summary.AverageVideosPerDay = round1(float64(videos) / float64(n))
	}
	return summary, nil
}

// bestStreak walks the entries by date and returns the longest run of adjacent days.
// Any gap other than exactly one day restarts the run.
func bestStreak(entries []models.CheckIn) int {
	sorted := make([]models.CheckIn, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CheckInDate.Before(sorted[j].CheckInDate)
	})

	best, run := 0, 0
	for i, c := range sorted {
		if i > 0 && DaysBetween(sorted[i-1].CheckInDate, c.CheckInDate) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
