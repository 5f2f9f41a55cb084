package services

import "time"

const day = 24 * time.Hour

// CivilDate drops the time of day from t, keeping the calendar date as seen in
// t's own location. Dates are stored as UTC midnights.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)) / day)
}

// WeekBounds returns the Monday and Sunday of the week containing date.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	date = CivilDate(date)
	offset := (int(date.Weekday()) + 6) % 7
	start := date.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first day of the month and the first day of the next one.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
