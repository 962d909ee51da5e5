package api

import (
	"context"
	"net/http"
)

func (c *Client) CreateBooking(ctx context.Context, payload CreateBookingRequest) (Booking, error) {
	var booking Booking
	err := c.do(ctx, call{
		op:      OpCreateBooking,
		method:  http.MethodPost,
		path:    "/api/bookings",
		body:    payload,
		useAuth: true,
		key:     []string{payload.VenueID},
	}, &booking)
	if err != nil {
		return Booking{}, err
	}
	return booking, nil
}

func (c *Client) ListMyBookings(ctx context.Context) ([]Booking, error) {
	bookings := []Booking{}
	err := c.do(ctx, call{
		op:      OpListMyBookings,
		method:  http.MethodGet,
		path:    "/api/bookings/my-bookings",
		useAuth: true,
	}, &bookings)
	if err != nil {
		return []Booking{}, err
	}
	return bookings, nil
}
