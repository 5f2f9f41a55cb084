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

// FallbackQuote is served whenever the quote source cannot be reached.
var FallbackQuote = QuoteData{
	Text:   "The impediment to action advances action. What stands in the way becomes the way.",
	Author: "Marcus Aurelius",
}

// QuoteService keeps one quote per calendar day.
type QuoteService struct {
	db      *gorm.DB
	source  QuoteSource
	timeout time.Duration
}

// NewQuoteService creates a new QuoteService. Each fetch is bounded by timeout.
func NewQuoteService(db *gorm.DB, source QuoteSource, timeout time.Duration) *QuoteService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QuoteService{db: db, source: source, timeout: timeout}
}

// GetDailyQuote returns the stored quote for today, fetching and storing one on
// the first request of the day. Source failures are replaced by FallbackQuote.
func (s *QuoteService) GetDailyQuote(ctx context.Context, today time.Time) (*models.DailyQuote, error) {
	date := CivilDate(today)
	db := s.db.WithContext(ctx)

	quote, err := findQuote(db, date)
	if err != nil || quote != nil {
		return quote, err
	}

	data := s.fetch(ctx)
	// concurrent first requests race here; the unique date keeps the first row
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&models.DailyQuote{Date: date, QuoteText: data.Text, Author: data.Author}).Error; err != nil {
		return nil, fmt.Errorf("store daily quote: %w", err)
	}

	quote, err = findQuote(db, date)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, errors.New("daily quote missing after insert")
	}
	return quote, nil
}

func (s *QuoteService) fetch(ctx context.Context) QuoteData {
	if s.source == nil {
		return FallbackQuote
	}
	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.source.Fetch(fctx)
	if err != nil {
		utils.Sugar.Warnw("quote fetch failed, using fallback", "error", err)
		return FallbackQuote
	}
	// upstream APIs sometimes embed markup in the quote
	data.Text = utils.SanitizeText(data.Text)
	data.Author = utils.SanitizeText(data.Author)
	if data.Text == "" {
		utils.Sugar.Warnw("quote fetch returned no text after sanitizing, using fallback")
		return FallbackQuote
	}
	return data
}

func findQuote(db *gorm.DB, date time.Time) (*models.DailyQuote, error) {
	var quote models.DailyQuote
	err := db.Where("date = ?", date).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load daily quote: %w", err)
	}
	return &quote, nil
}
