package models

import "time"

// Streak holds the derived consecutive-day counters of a single user.
type Streak struct {
	ID              uint       `gorm:"primaryKey" json:"-"`
	UserID          uint       `gorm:"uniqueIndex;not null" json:"-"`
	CurrentStreak   int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"not null;default:0" json:"longest_streak"`
	LastCheckInDate *time.Time `gorm:"type:date" json:"last_check_in_date"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}
