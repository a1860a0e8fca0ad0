package timex

import (
	"fmt"
	"time"
)

// DateLayout is the storage and CLI layout of calendar dates.
const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a UTC calendar date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// YearStart returns January 1st of year.
func YearStart(year int) time.Time {
	return NewDate(year, time.January, 1)
}

// YearEnd returns December 31st of year.
func YearEnd(year int) time.Time {
	return NewDate(year, time.December, 31)
}

// YearsBetween returns every calendar year intersected by [from, to],
// ascending. It is empty when to is before from.
func YearsBetween(from, to time.Time) []int {
	if to.Before(from) {
		return nil
	}
	years := make([]int, 0, to.Year()-from.Year()+1)
	for y := from.Year(); y <= to.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// ClipToYear clips [from, to] to the boundaries of year.
func ClipToYear(from, to time.Time, year int) (time.Time, time.Time) {
	start, end := YearStart(year), YearEnd(year)
	if from.After(start) {
		start = from
	}
	if to.Before(end) {
		end = to
	}
	return Date(start), Date(end)
}
