package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/consigliere/models"
)

func TestWeeklySummaryEmptyWeek(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	summary, err := f.analytics.WeeklySummary(context.Background(), user, mustDate(t, "2024-03-06"))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", summary.WeekStart.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", summary.WeekEnd.Format("2006-01-02"))
	assert.Zero(t, summary.DaysCheckedIn)
	assert.Zero(t, summary.TotalPages)
	assert.Zero(t, summary.TotalVideos)
	assert.Equal(t, 0.0, summary.GoalSuccessRate)
	assert.Equal(t, 10, summary.PagesGoal)
	assert.Equal(t, 1, summary.VideosGoal)
}

func TestWeeklySummaryGoalSuccessRate(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	f.checkIn(t, user.ID, "2024-03-03", 99, 9) // previous Sunday
	f.checkIn(t, user.ID, "2024-03-04", 10, 1)
	f.checkIn(t, user.ID, "2024-03-05", 5, 1)
	f.checkIn(t, user.ID, "2024-03-06", 12, 0)
	f.checkIn(t, user.ID, "2024-03-11", 99, 9) // next Monday

	summary, err := f.analytics.WeeklySummary(context.Background(), user, mustDate(t, "2024-03-06"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.DaysCheckedIn)
	assert.Equal(t, 27, summary.TotalPages)
	assert.Equal(t, 2, summary.TotalVideos)
	assert.Equal(t, 33.3, summary.GoalSuccessRate)
}

func TestWeeklySummaryOnSunday(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	f.checkIn(t, user.ID, "2024-03-04", 10, 1)
	f.checkIn(t, user.ID, "2024-03-10", 10, 1)

	summary, err := f.analytics.WeeklySummary(context.Background(), user, mustDate(t, "2024-03-10"))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", summary.WeekStart.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", summary.WeekEnd.Format("2006-01-02"))
	assert.Equal(t, 2, summary.DaysCheckedIn)
	assert.Equal(t, 100.0, summary.GoalSuccessRate)
}

func TestWeeklySummaryUsesCurrentGoals(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	f.checkIn(t, user.ID, "2024-03-04", 5, 0)

	user, err := f.users.UpdateGoals(context.Background(), user.ID, 5, 0)
	require.NoError(t, err)

	summary, err := f.analytics.WeeklySummary(context.Background(), user, mustDate(t, "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.GoalSuccessRate)
	assert.Equal(t, 5, summary.PagesGoal)
	assert.Equal(t, 0, summary.VideosGoal)
}

func TestMonthlySummary(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	f.checkIn(t, user.ID, "2024-02-29", 50, 5)
	f.checkIn(t, user.ID, "2024-03-01", 4, 1)
	f.checkIn(t, user.ID, "2024-03-02", 5, 0)
	f.checkIn(t, user.ID, "2024-03-03", 6, 0)
	f.checkIn(t, user.ID, "2024-03-10", 7, 0)
	f.checkIn(t, user.ID, "2024-04-01", 50, 5)

	summary, err := f.analytics.MonthlySummary(context.Background(), user, 3, 2024)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Month)
	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, 4, summary.TotalLearningDays)
	assert.Equal(t, 5.5, summary.AveragePagesPerDay)
	assert.Equal(t, 0.3, summary.AverageVideosPerDay)
	assert.Equal(t, 3, summary.BestStreak)
}

func TestMonthlySummaryEmpty(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	summary, err := f.analytics.MonthlySummary(context.Background(), user, 12, 2023)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalLearningDays)
	assert.Equal(t, 0.0, summary.AveragePagesPerDay)
	assert.Equal(t, 0.0, summary.AverageVideosPerDay)
	assert.Zero(t, summary.BestStreak)
}

func TestMonthlySummaryDecemberBoundary(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	f.checkIn(t, user.ID, "2023-12-31", 1, 0)
	f.checkIn(t, user.ID, "2024-01-01", 1, 0)

	dec, err := f.analytics.MonthlySummary(context.Background(), user, 12, 2023)
	require.NoError(t, err)
	assert.Equal(t, 1, dec.TotalLearningDays)
	assert.Equal(t, 1, dec.BestStreak)
}

func TestMonthlySummaryRejectsBadMonth(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	for _, month := range []int{0, 13, -1} {
		_, err := f.analytics.MonthlySummary(context.Background(), user, month, 2024)
		assert.ErrorIs(t, err, ErrValidation, "month %d", month)
	}
}

func TestBestStreak(t *testing.T) {
	entries := func(dates ...string) []models.CheckIn {
		out := make([]models.CheckIn, len(dates))
		for i, d := range dates {
			out[i] = models.CheckIn{CheckInDate: mustDate(t, d)}
		}
		return out
	}

	assert.Equal(t, 0, bestStreak(nil))
	assert.Equal(t, 1, bestStreak(entries("2024-03-05")))
	assert.Equal(t, 3, bestStreak(entries("2024-03-10", "2024-03-02", "2024-03-01", "2024-03-03")))
	assert.Equal(t, 2, bestStreak(entries("2024-03-01", "2024-03-03", "2024-03-04")))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, round1(100.0/3))
	assert.Equal(t, 66.7, round1(200.0/3))
	assert.Equal(t, 0.3, round1(0.25))
	assert.Equal(t, 0.0, round1(0))
}
