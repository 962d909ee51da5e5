package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListVenues(ctx context.Context) ([]Venue, error) {
	venues := []Venue{}
	err := c.do(ctx, call{
		op:      OpListVenues,
		method:  http.MethodGet,
		path:    "/api/venues",
		useAuth: true,
	}, &venues)
	if err != nil {
		return []Venue{}, err
	}
	return venues, nil
}

func (c *Client) CreateVenue(ctx context.Context, payload CreateVenueRequest) (Venue, error) {
	var venue Venue
	err := c.do(ctx, call{
		op:      OpCreateVenue,
		method:  http.MethodPost,
		path:    "/api/venues",
		body:    payload,
		useAuth: true,
		key:     []string{payload.Name},
	}, &venue)
	if err != nil {
		return Venue{}, err
	}
	return venue, nil
}

func (c *Client) ListVenueBookings(ctx context.Context, venueID string) ([]Booking, error) {
	bookings := []Booking{}
	err := c.do(ctx, call{
		op:      OpListVenueBookings,
		method:  http.MethodGet,
		path:    "/api/venues/" + url.PathEscape(venueID) + "/bookings",
		useAuth: true,
		key:     []string{venueID},
	}, &bookings)
	if err != nil {
		return []Booking{}, err
	}
	return bookings, nil
}

// BlockVenueDates marks a range unavailable. The API's confirmation is
// returned as decoded JSON.
func (c *Client) BlockVenueDates(ctx context.Context, venueID string, block BlockRange) (map[string]any, error) {
	var resp map[string]any
	err := c.do(ctx, call{
		op:      OpBlockVenueDates,
		method:  http.MethodPost,
		path:    "/api/venues/" + url.PathEscape(venueID) + "/block",
		body:    block,
		useAuth: true,
		key:     []string{venueID},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
