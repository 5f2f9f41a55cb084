package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a learner. Passwords are stored as bcrypt hashes only.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	ProfilePicture string    `gorm:"size:255" json:"profile_picture"`
	PagesGoal      int       `gorm:"not null;default:10" json:"pages_goal"`
	VideosGoal     int       `gorm:"not null;default:1" json:"videos_goal"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CheckIns       []CheckIn `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Streak         *Streak   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// MeetsGoals reports whether a day's numbers reach both of the user's goals.
func (u *User) MeetsGoals(pagesRead, videosWatched int) bool {
	return pagesRead >= u.PagesGoal && videosWatched >= u.VideosGoal
}
