package models

import "time"

// CheckIn is one learning record per user per calendar day. Rows are never updated.
type CheckIn struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_check_in_date,priority:1" json:"user_id"`
	CheckInDate   time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_user_check_in_date,priority:2" json:"check_in_date"`
	PagesRead     int       `gorm:"not null" json:"pages_read"`
	VideosWatched int       `gorm:"not null" json:"videos_watched"`
	Notes         *string   `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
