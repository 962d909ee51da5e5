package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Person struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PersonRef is a populated person object or a bare id string.
type PersonRef struct {
	Person
}

func (r *PersonRef) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		r.Person = Person{ID: id}
		return nil
	}
	return json.Unmarshal(data, &r.Person)
}

type Venue struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Capacity    int        `json:"capacity"`
	PricePerDay float64    `json:"pricePerDay"`
	Amenities   []string   `json:"amenities"`
	Owner       *PersonRef `json:"owner,omitempty"`
}

// VenueRef is a populated venue object or a bare id string.
type VenueRef struct {
	Venue
}

func (r *VenueRef) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		r.Venue = Venue{ID: id}
		return nil
	}
	return json.Unmarshal(data, &r.Venue)
}

func bareID(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return "", false
	}
	return id, true
}

type CreateVenueRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Capacity    int      `json:"capacity"`
	PricePerDay float64  `json:"pricePerDay"`
	Amenities   []string `json:"amenities"`
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          string        `json:"_id"`
	Venue       *VenueRef     `json:"venue,omitempty"`
	Customer    *PersonRef    `json:"customer,omitempty"`
	User        *PersonRef    `json:"user,omitempty"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`
	TotalPrice  *float64      `json:"totalPrice,omitempty"`
	TotalAmount *float64      `json:"totalAmount,omitempty"`
	Amount      *float64      `json:"amount,omitempty"`
	Status      BookingStatus `json:"status,omitempty"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	BookingDate string        `json:"bookingDate,omitempty"`
}

// EffectiveStatus is the status to display. A missing status reads as
// pending; the wire value is left untouched.
func (b Booking) EffectiveStatus() BookingStatus {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(string(b.Status))))
	if status == "" {
		return StatusPending
	}
	return status
}

// Requester resolves who made the booking: customer first, then user.
func (b Booking) Requester() Person {
	p := Person{Name: "Customer", Email: "No email provided"}
	for _, ref := range []*PersonRef{b.Customer, b.User} {
		if ref == nil {
			continue
		}
		if ref.Name != "" && p.Name == "Customer" {
			p.Name = ref.Name
		}
		if ref.Email != "" && p.Email == "No email provided" {
			p.Email = ref.Email
		}
	}
	return p
}

// Price returns the first of totalPrice, totalAmount, amount that is set.
func (b Booking) Price() (float64, bool) {
	for _, v := range []*float64{b.TotalPrice, b.TotalAmount, b.Amount} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// Created returns createdAt, falling back to bookingDate.
func (b Booking) Created() string {
	if b.CreatedAt != "" {
		return b.CreatedAt
	}
	return b.BookingDate
}

type CreateBookingRequest struct {
	VenueID   string `json:"venueId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type BlockRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}
