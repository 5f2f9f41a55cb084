package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/consigliere/models"
)

func TestAdvanceStreak(t *testing.T) {
	d := func(s string) *time.Time { v := mustDate(t, s); return &v }

	cases := []struct {
		name        string
		start       models.Streak
		newDate     string
		wantCurrent int
		wantLongest int
	}{
		{"first check-in", models.Streak{}, "2024-03-01", 1, 1},
		{"consecutive day", models.Streak{CurrentStreak: 4, LongestStreak: 4, LastCheckInDate: d("2024-03-01")}, "2024-03-02", 5, 5},
		{"consecutive below longest", models.Streak{CurrentStreak: 2, LongestStreak: 9, LastCheckInDate: d("2024-03-01")}, "2024-03-02", 3, 9},
		{"same day", models.Streak{CurrentStreak: 3, LongestStreak: 3, LastCheckInDate: d("2024-03-01")}, "2024-03-01", 3, 3},
		{"missed days", models.Streak{CurrentStreak: 6, LongestStreak: 6, LastCheckInDate: d("2024-03-01")}, "2024-03-06", 1, 6},
		{"backdated", models.Streak{CurrentStreak: 2, LongestStreak: 5, LastCheckInDate: d("2024-03-10")}, "2024-03-09", 1, 5},
		{"after decay", models.Streak{CurrentStreak: 0, LongestStreak: 4, LastCheckInDate: d("2024-03-01")}, "2024-03-02", 1, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			streak := tc.start
			advanceStreak(&streak, mustDate(t, tc.newDate))
			assert.Equal(t, tc.wantCurrent, streak.CurrentStreak)
			assert.Equal(t, tc.wantLongest, streak.LongestStreak)
			require.NotNil(t, streak.LastCheckInDate)
			assert.Equal(t, tc.newDate, streak.LastCheckInDate.Format("2006-01-02"))
		})
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	f.checkIn(t, user.ID, "2024-03-01", 5, 1)
	f.checkIn(t, user.ID, "2024-03-02", 5, 1)
	streak := f.checkIn(t, user.ID, "2024-03-03", 5, 1)

	assert.Equal(t, 3, streak.CurrentStreak)
	assert.GreaterOrEqual(t, streak.LongestStreak, 3)

	stored := f.storedStreak(t, user.ID)
	assert.Equal(t, 3, stored.CurrentStreak)
	assert.Equal(t, "2024-03-03", stored.LastCheckInDate.Format("2006-01-02"))
}

func TestStreakResetsAfterGap(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")

	f.checkIn(t, user.ID, "2024-03-01", 5, 1)
	f.checkIn(t, user.ID, "2024-03-02", 5, 1)
	streak := f.checkIn(t, user.ID, "2024-03-07", 5, 1)

	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestUpdateStreakCreatesMissingRecord(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Delete(&models.Streak{}).Error)

	streak, err := f.streaks.UpdateStreak(context.Background(), user.ID, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, f.storedStreak(t, user.ID).LongestStreak)
}

func TestDisplayStreakDecaysAndPersists(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	ctx := context.Background()

	f.checkIn(t, user.ID, "2024-03-01", 5, 1)
	f.checkIn(t, user.ID, "2024-03-02", 5, 1)

	shown, err := f.streaks.GetStreakForDisplay(ctx, user.ID, mustDate(t, "2024-03-03"))
	require.NoError(t, err)
	assert.Equal(t, 2, shown.CurrentStreak, "yesterday's check-in keeps the streak alive")

	shown, err = f.streaks.GetStreakForDisplay(ctx, user.ID, mustDate(t, "2024-03-05"))
	require.NoError(t, err)
	assert.Equal(t, 0, shown.CurrentStreak)
	assert.Equal(t, 2, shown.LongestStreak)

	stored := f.storedStreak(t, user.ID)
	assert.Equal(t, 0, stored.CurrentStreak)
	assert.Equal(t, 2, stored.LongestStreak)
	assert.Equal(t, "2024-03-02", stored.LastCheckInDate.Format("2006-01-02"))

	// a later read on an earlier "today" does not resurrect the streak
	shown, err = f.streaks.GetStreakForDisplay(ctx, user.ID, mustDate(t, "2024-03-03"))
	require.NoError(t, err)
	assert.Equal(t, 0, shown.CurrentStreak)

	streak := f.checkIn(t, user.ID, "2024-03-05", 5, 1)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestDisplayStreakCreatesEmptyRecord(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Delete(&models.Streak{}).Error)

	shown, err := f.streaks.GetStreakForDisplay(context.Background(), user.ID, mustDate(t, "2024-03-05"))
	require.NoError(t, err)
	assert.Equal(t, 0, shown.CurrentStreak)
	assert.Equal(t, 0, shown.LongestStreak)
	assert.Nil(t, shown.LastCheckInDate)
}

func TestLongestNeverBelowCurrent(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "ada")
	rng := rand.New(rand.NewSource(7))

	date := mustDate(t, "2024-01-01")
	prevLongest := 0
	for i := 0; i < 40; i++ {
		date = date.AddDate(0, 0, 1+rng.Intn(3)*rng.Intn(2))
		streak := f.checkIn(t, user.ID, date.Format("2006-01-02"), 1, 1)

		assert.GreaterOrEqual(t, streak.LongestStreak, streak.CurrentStreak)
		assert.GreaterOrEqual(t, streak.LongestStreak, prevLongest)
		prevLongest = streak.LongestStreak

		if rng.Intn(4) == 0 {
			shown, err := f.streaks.GetStreakForDisplay(context.Background(), user.ID, date.AddDate(0, 0, rng.Intn(3)))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, shown.LongestStreak, shown.CurrentStreak)
		}
	}
}
