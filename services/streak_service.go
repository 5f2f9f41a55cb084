package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/consigliere/models"
	"github.com/cppla/consigliere/utils"
)

// StreakService maintains the per-user consecutive-day streak.
type StreakService struct {
	db *gorm.DB
}

// NewStreakService creates a new StreakService.
func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{db: db}
}

// UpdateStreak applies a check-in on newDate to the user's streak and persists it.
// Callers that also write a check-in should go through CheckInService so both
// rows share a transaction.
func (s *StreakService) UpdateStreak(ctx context.Context, userID uint, newDate time.Time) (*models.Streak, error) {
	var streak *models.Streak
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		streak, err = s.updateInTx(tx, userID, newDate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return streak, nil
}

func (s *StreakService) updateInTx(tx *gorm.DB, userID uint, newDate time.Time) (*models.Streak, error) {
	streak, err := loadOrCreateStreak(tx, userID)
	if err != nil {
		return nil, err
	}
	advanceStreak(streak, CivilDate(newDate))
	if err := tx.Save(streak).Error; err != nil {
		return nil, fmt.Errorf("save streak: %w", err)
	}
	return streak, nil
}

// GetStreakForDisplay returns the streak as the dashboard shows it. A streak whose
// last check-in is more than a day before today is broken; the zeroed counter is
// written back so later reads agree.
func (s *StreakService) GetStreakForDisplay(ctx context.Context, userID uint, today time.Time) (*models.Streak, error) {
	db := s.db.WithContext(ctx)
	streak, err := loadOrCreateStreak(db, userID)
	if err != nil {
		return nil, err
	}
	if !decayStreak(streak, CivilDate(today)) {
		return streak, nil
	}

	if err := db.Model(streak).Updates(map[string]interface{}{
		"current_streak": 0,
		"updated_at":     time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("persist streak decay: %w", err)
	}
	utils.Sugar.Debugw("streak decayed", "user_id", userID, "last_check_in_date", streak.LastCheckInDate)
	return streak, nil
}

// advanceStreak is the write-time transition for a check-in on newDate.
func advanceStreak(streak *models.Streak, newDate time.Time) {
	if streak.LastCheckInDate == nil {
		streak.CurrentStreak = 1
	} else {
		switch gap := DaysBetween(*streak.LastCheckInDate, newDate); {
		case gap == 1:
			streak.CurrentStreak++
		case gap == 0:
			// same day: the ledger's uniqueness check keeps us from getting here
		default:
			// a missed day or a backdated entry starts over
			streak.CurrentStreak = 1
		}
	}
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	last := newDate
	streak.LastCheckInDate = &last
	streak.UpdatedAt = time.Now()
}

// decayStreak zeroes the current counter when more than a day has passed since
// the last check-in. It reports whether anything changed.
func decayStreak(streak *models.Streak, today time.Time) bool {
	if streak.LastCheckInDate == nil || streak.CurrentStreak == 0 {
		return false
	}
	if DaysBetween(*streak.LastCheckInDate, today) <= 1 {
		return false
	}
	streak.CurrentStreak = 0
	return true
}

// loadOrCreateStreak returns the user's streak row, inserting an empty one on first access.
func loadOrCreateStreak(db *gorm.DB, userID uint) (*models.Streak, error) {
	var streak models.Streak
	err := db.Where("user_id = ?", userID).First(&streak).Error
	if err == nil {
		return &streak, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load streak: %w", err)
	}

	// a concurrent first access may insert the same row; the unique user_id keeps one
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Streak{UserID: userID}).Error; err != nil {
		return nil, fmt.Errorf("create streak: %w", err)
	}
	if err := db.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	return &streak, nil
}
