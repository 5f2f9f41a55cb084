package models

import "time"

// DailyQuote is the quote shown to everyone on a given date. Rows are never updated.
type DailyQuote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Date      time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	QuoteText string    `gorm:"type:text;not null" json:"quote_text"`
	Author    string    `gorm:"size:255" json:"author"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
