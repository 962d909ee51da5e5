package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("session rejected by the API")
	ErrSuperseded   = errors.New("request superseded by a newer one")
	ErrCancelled    = errors.New("request cancelled")
)

type Operation string

const (
	OpLogin             Operation = "login"
	OpListVenues        Operation = "listVenues"
	OpCreateVenue       Operation = "createVenue"
	OpListVenueBookings Operation = "listVenueBookings"
	OpBlockVenueDates   Operation = "blockVenueDates"
	OpCreateBooking     Operation = "createBooking"
	OpListMyBookings    Operation = "listMyBookings"
)

var fallbackMessages = map[Operation]string{
	OpLogin:             "Login failed. Please try again.",
	OpListVenues:        "Failed to fetch venues",
	OpCreateVenue:       "Failed to create venue. Please try again.",
	OpListVenueBookings: "Failed to fetch venue bookings",
	OpBlockVenueDates:   "Failed to block venue dates",
	OpCreateBooking:     "Something went wrong",
	OpListMyBookings:    "Failed to fetch bookings",
}

// FallbackMessage is shown when a failure carries no message of its own.
func (op Operation) FallbackMessage() string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return "Request failed"
}

// RequestError is a failed remote call, normalized for display. StatusCode is
// zero when no response arrived.
type RequestError struct {
	Op         Operation
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized && e.Unauthorized()
}

func (e *RequestError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// messageFromBody pulls a human-readable message out of an error body,
// trying "message" then "error".
func messageFromBody(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		switch v := payload[key].(type) {
		case string:
			if msg := strings.TrimSpace(v); msg != "" {
				return msg
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && strings.TrimSpace(msg) != "" {
				return strings.TrimSpace(msg)
			}
		}
	}
	return ""
}
