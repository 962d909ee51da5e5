// Package view holds display helpers shared by the CLI and browser front ends.
package view

import (
	"strings"

	"venue-cli/api"
	"venue-cli/daterange"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const missing = "N/A"

var printer = message.NewPrinter(language.English)

// Price renders an amount in rupees with digit grouping, e.g. ₹20,000.
func Price(amount float64) string {
	return "₹" + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

// BookingPrice renders the booking's effective total, or N/A when the API
// sent none.
func BookingPrice(b api.Booking) string {
	amount, ok := b.Price()
	if !ok {
		return missing
	}
	return Price(amount)
}

// Date renders an API date as "Jan 2, 2006". Unparseable input is returned
// unchanged.
func Date(value string) string {
	if strings.TrimSpace(value) == "" {
		return missing
	}
	t, err := daterange.Parse(value)
	if err != nil {
		return value
	}
	return daterange.FormatDate(t)
}

func Dates(b api.Booking) string {
	return Date(b.StartDate) + " - " + Date(b.EndDate)
}

// BookingDays renders the billed day count of a booking.
func BookingDays(b api.Booking) string {
	r, err := daterange.ParseRange(b.StartDate, b.EndDate)
	if err != nil {
		return missing
	}
	days, err := r.Days()
	if err != nil {
		return missing
	}
	return daterange.DayLabel(days)
}

// Status renders the display status with an upper-case first letter.
func Status(b api.Booking) string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(string(b.EffectiveStatus()))
}

func VenueName(b api.Booking) string {
	if b.Venue == nil || b.Venue.Name == "" {
		return "Venue"
	}
	return b.Venue.Name
}

func VenueLocation(b api.Booking) string {
	if b.Venue == nil || b.Venue.Location == "" {
		return missing
	}
	return b.Venue.Location
}

func Amenities(amenities []string) string {
	if len(amenities) == 0 {
		return "-"
	}
	return strings.Join(amenities, ", ")
}

// Owner renders a venue owner by name, then email.
func Owner(v api.Venue) string {
	if v.Owner == nil {
		return "-"
	}
	if v.Owner.Name != "" {
		return v.Owner.Name
	}
	if v.Owner.Email != "" {
		return v.Owner.Email
	}
	return "-"
}
