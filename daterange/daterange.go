// Package daterange turns a start/end date pair into a billable day count and a
// total price. Booking previews and admin block previews both go through it.
package daterange

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidRange  = errors.New("end date must be after start date")
	ErrMissingDate   = errors.New("please select both start and end dates")
	ErrNegativePrice = errors.New("price per day must not be negative")
)

type Range struct {
	Start time.Time
	End   time.Time
}

type Quote struct {
	Days        int     `json:"days"`
	PricePerDay float64 `json:"price_per_day"`
	Total       float64 `json:"total"`
}

// Parse accepts a calendar date (YYYY-MM-DD, read as UTC midnight) or an
// RFC3339 timestamp as the API returns them.
func Parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrMissingDate
	}
	if parsed, err := time.ParseInLocation(dateLayout, input, time.UTC); err == nil {
		return parsed, nil
	}
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.000Z07:00",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, input); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", input)
}

// ParseRange parses both ends and rejects empty or inverted ranges.
func ParseRange(start, end string) (Range, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Range{}, ErrMissingDate
	}
	s, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	if !e.After(s) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: s, End: e}, nil
}

// Days returns ceil(hours(end-start)/24). A positive span always bills at
// least one day; a zero or negative span is ErrInvalidRange.
func Days(start, end time.Time) (int, error) {
	span := end.Sub(start)
	if span <= 0 {
		return 0, ErrInvalidRange
	}
	days := int(math.Ceil(span.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

func Total(start, end time.Time, pricePerDay float64) (Quote, error) {
	if pricePerDay < 0 {
		return Quote{}, ErrNegativePrice
	}
	days, err := Days(start, end)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Days:        days,
		PricePerDay: pricePerDay,
		Total:       float64(days) * pricePerDay,
	}, nil
}

func (r Range) Days() (int, error) {
	return Days(r.Start, r.End)
}

func (r Range) Quote(pricePerDay float64) (Quote, error) {
	return Total(r.Start, r.End, pricePerDay)
}

// DayLabel renders "1 day" / "N days".
func DayLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
