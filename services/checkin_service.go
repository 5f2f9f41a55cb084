package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/consigliere/config"
	"github.com/cppla/consigliere/models"
	"github.com/cppla/consigliere/utils"
)

// CheckInInput carries the user-supplied part of a check-in.
type CheckInInput struct {
	PagesRead     int
	VideosWatched int
	Notes         *string
}

// CheckInService is the append-only ledger of daily check-ins.
type CheckInService struct {
	db      *gorm.DB
	streaks *StreakService

	maxNotesLength int
	defaultLimit   int
	maxLimit       int
}

// NewCheckInService creates a ledger that updates streaks through streaks.
func NewCheckInService(db *gorm.DB, streaks *StreakService, cfg config.AppConfig) *CheckInService {
	return &CheckInService{
		db:             db,
		streaks:        streaks,
		maxNotesLength: cfg.MaxNotesLength,
		defaultLimit:   cfg.HistoryDefaultLimit,
		maxLimit:       cfg.HistoryMaxLimit,
	}
}

// RecordCheckIn stores the check-in for today and advances the user's streak in
// the same transaction. A second check-in for the same date fails with
// ErrDuplicateCheckIn and leaves both rows untouched.
func (s *CheckInService) RecordCheckIn(ctx context.Context, userID uint, in CheckInInput, today time.Time) (*models.CheckIn, *models.Streak, error) {
	if err := s.validate(in); err != nil {
		return nil, nil, err
	}

	date := CivilDate(today)
	checkIn := &models.CheckIn{
		UserID:        userID,
		CheckInDate:   date,
		PagesRead:     in.PagesRead,
		VideosWatched: in.VideosWatched,
		Notes:         in.Notes,
	}

	var streak *models.Streak
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.CheckIn{}).
			Where("user_id = ? AND check_in_date = ?", userID, date).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing check-in: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateCheckIn
		}

		// the unique (user_id, check_in_date) index settles concurrent attempts
		if err := tx.Create(checkIn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCheckIn
			}
			return fmt.Errorf("create check-in: %w", err)
		}

		var err error
		streak, err = s.streaks.updateInTx(tx, userID, date)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	utils.Sugar.Infow("check-in recorded",
		"user_id", userID,
		"date", date.Format("2006-01-02"),
		"current_streak", streak.CurrentStreak,
	)
	return checkIn, streak, nil
}

func (s *CheckInService) validate(in CheckInInput) error {
	if in.PagesRead < 0 {
		return fmt.Errorf("%w: pages_read must be >= 0", ErrValidation)
	}
	if in.VideosWatched < 0 {
		return fmt.Errorf("%w: videos_watched must be >= 0", ErrValidation)
	}
	if in.Notes != nil && len([]rune(*in.Notes)) > s.maxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrValidation, s.maxNotesLength)
	}
	return nil
}

// GetCheckIn returns the user's check-in for date, or nil when there is none.
func (s *CheckInService) GetCheckIn(ctx context.Context, userID uint, date time.Time) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_in_date = ?", userID, CivilDate(date)).
		First(&checkIn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get check-in: %w", err)
	}
	return &checkIn, nil
}

// ListCheckIns returns the user's most recent check-ins, newest first. A zero
// limit means the configured default; negative limits are rejected.
func (s *CheckInService) ListCheckIns(ctx context.Context, userID uint, limit int) ([]models.CheckIn, error) {
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrValidation)
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	checkIns := []models.CheckIn{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in_date DESC").
		Limit(limit).
		Find(&checkIns).Error; err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return checkIns, nil
}

// checkInsBetween returns the user's check-ins with from <= date < to, oldest first.
func (s *CheckInService) checkInsBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_in_date >= ? AND check_in_date < ?", userID, CivilDate(from), CivilDate(to)).
		Order("check_in_date ASC").
		Find(&checkIns).Error; err != nil {
		return nil, fmt.Errorf("range check-ins: %w", err)
	}
	return checkIns, nil
}
