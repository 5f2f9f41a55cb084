package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/consigliere/config"
	"github.com/cppla/consigliere/models"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		MaxNotesLength:      5000,
		DefaultPagesGoal:    10,
		DefaultVideosGoal:   1,
		HistoryDefaultLimit: 30,
		HistoryMaxLimit:     365,
		QuoteTimeout:        time.Second,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	cfg := config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name),
		LogLevel:    "silent",
	}
	db, err := config.InitDatabase(cfg, config.Models()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db        *gorm.DB
	users     *UserService
	streaks   *StreakService
	checkIns  *CheckInService
	analytics *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	streaks := NewStreakService(db)
	checkIns := NewCheckInService(db, streaks, cfg)
	return &fixture{
		db:        db,
		users:     NewUserService(db, cfg),
		streaks:   streaks,
		checkIns:  checkIns,
		analytics: NewAnalyticsService(checkIns),
	}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), username+"@example.com", username, "secret123")
	require.NoError(t, err)
	return user
}

func (f *fixture) checkIn(t *testing.T, userID uint, date string, pages, videos int) *models.Streak {
	t.Helper()
	_, streak, err := f.checkIns.RecordCheckIn(context.Background(), userID,
		CheckInInput{PagesRead: pages, VideosWatched: videos}, mustDate(t, date))
	require.NoError(t, err)
	return streak
}

func (f *fixture) storedStreak(t *testing.T, userID uint) models.Streak {
	t.Helper()
	var streak models.Streak
	require.NoError(t, f.db.Where("user_id = ?", userID).First(&streak).Error)
	return streak
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
