package form

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"venue-cli/daterange"
)

// DefaultBlockReason is sent when the admin leaves the reason blank.
const DefaultBlockReason = "Blocked by admin"

// CommonAmenities is the admin form's quick-add list.
var CommonAmenities = []string{
	"WiFi", "Parking", "Air Conditioning", "Sound System", "Projector",
	"Stage", "Kitchen", "Bar", "Dance Floor", "Photography", "Catering",
	"Security", "Restrooms", "Lighting", "Tables & Chairs",
}

type SignIn struct {
	Email    string `form:"email" validate:"required,looseemail"`
	Password string `form:"password" validate:"required"`
}

var signInMessages = map[string]string{
	"email.required":   "Email is required",
	"email.looseemail": "Please enter a valid email address",
	"password":         "Password is required",
}

func (f *SignIn) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	if verr := check(f, signInMessages); verr != nil {
		return verr
	}
	return nil
}

// VenueInput is the raw admin form; capacity and price arrive as text.
type VenueInput struct {
	Name        string
	Description string
	Location    string
	Capacity    string
	PricePerDay string
	Amenities   []string
}

// Venue is a validated create-venue form with numeric fields coerced.
type Venue struct {
	Name        string   `form:"name" validate:"required"`
	Description string   `form:"description" validate:"required"`
	Location    string   `form:"location" validate:"required"`
	Capacity    int      `form:"capacity" validate:"gt=0"`
	PricePerDay float64  `form:"pricePerDay" validate:"gt=0"`
	Amenities   []string `form:"amenities" validate:"min=1"`
}

var venueMessages = map[string]string{
	"name":        "Venue name is required",
	"description": "Description is required",
	"location":    "Location is required",
	"capacity":    "Valid capacity is required",
	"pricePerDay": "Valid price is required",
	"amenities":   "At least one amenity is required",
}

func (in VenueInput) Validate() (Venue, error) {
	v := Venue{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Capacity:    parseCapacity(in.Capacity),
		PricePerDay: parsePrice(in.PricePerDay),
	}
	for _, a := range in.Amenities {
		v.Amenities = AddAmenity(v.Amenities, a)
	}
	if verr := check(&v, venueMessages); verr != nil {
		return Venue{}, verr
	}
	return v, nil
}

func parseCapacity(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0
	}
	return n
}

func parsePrice(input string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// AddAmenity appends a trimmed amenity unless it is blank or already present.
func AddAmenity(amenities []string, amenity string) []string {
	amenity = strings.TrimSpace(amenity)
	if amenity == "" {
		return amenities
	}
	for _, existing := range amenities {
		if existing == amenity {
			return amenities
		}
	}
	return append(amenities, amenity)
}

func RemoveAmenity(amenities []string, amenity string) []string {
	out := make([]string, 0, len(amenities))
	for _, existing := range amenities {
		if existing != amenity {
			out = append(out, existing)
		}
	}
	return out
}

// Booking is the customer booking form.
type Booking struct {
	StartDate string
	EndDate   string
}

// Validate checks the range and that it does not start before today. now
// supplies "today".
func (f Booking) Validate(now time.Time) (daterange.Range, error) {
	r, err := validateRange(f.StartDate, f.EndDate)
	if err != nil {
		return daterange.Range{}, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if r.Start.Before(today) {
		return daterange.Range{}, newValidationError("startDate", "Start date cannot be in the past")
	}
	return r, nil
}

// Block is the admin block-dates form.
type Block struct {
	StartDate string
	EndDate   string
	Reason    string
}

func (f Block) Validate() (daterange.Range, error) {
	return validateRange(f.StartDate, f.EndDate)
}

func (f Block) ReasonOrDefault() string {
	if reason := strings.TrimSpace(f.Reason); reason != "" {
		return reason
	}
	return DefaultBlockReason
}

func validateRange(start, end string) (daterange.Range, error) {
	r, err := daterange.ParseRange(start, end)
	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, daterange.ErrMissingDate):
		return daterange.Range{}, newValidationError(SubmitField, "Please select both start and end dates")
	case errors.Is(err, daterange.ErrInvalidRange):
		return daterange.Range{}, newValidationError("endDate", "End date must be after start date")
	default:
		return daterange.Range{}, newValidationError(SubmitField, err.Error())
	}
}
