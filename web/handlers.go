package web

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"venue-cli/api"
	"venue-cli/daterange"
	"venue-cli/form"
	"venue-cli/session"

	"github.com/gin-gonic/gin"
)

// unauthorized redirects to sign-in when the API rejected the session. The
// client has already cleared it.
func unauthorized(c *gin.Context, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	c.Redirect(http.StatusFound, routePaths[session.RouteSignIn])
	c.Abort()
	return true
}

// withFormError fills p from a validation error. A submit-level message
// becomes the page banner.
func withFormError(p page, err error) (page, int) {
	verr, ok := form.AsValidation(err)
	if !ok {
		p.Error = err.Error()
		return p, http.StatusOK
	}
	p.Errors = verr.Fields
	p.Error = verr.Field(form.SubmitField)
	return p, http.StatusUnprocessableEntity
}

type signInData struct {
	Email string
}

func (s *Server) signInPage(c *gin.Context) {
	s.render(c, http.StatusOK, "sign_in", page{Title: "Sign in", Data: signInData{}})
}

func (s *Server) signIn(c *gin.Context) {
	f := form.SignIn{Email: c.PostForm("email"), Password: c.PostForm("password")}
	p := page{Title: "Sign in", Data: signInData{Email: f.Email}}

	if err := f.Validate(); err != nil {
		p, status := withFormError(p, err)
		s.render(c, status, "sign_in", p)
		return
	}
	if _, err := s.clientFor(c).Login(c.Request.Context(), f.Email, f.Password); err != nil {
		p.Error = err.Error()
		s.render(c, http.StatusOK, "sign_in", p)
		return
	}
	c.Redirect(http.StatusSeeOther, routePaths["venues"])
}

func (s *Server) registerPage(c *gin.Context) {
	s.render(c, http.StatusOK, "register", page{Title: "Register"})
}

func (s *Server) signOut(c *gin.Context) {
	if err := sessionFrom(c).ClearToken(); err != nil {
		s.logger.Warn("clear session", "error", err)
	}
	c.Redirect(http.StatusSeeOther, routePaths[session.RouteSignIn])
}

func (s *Server) venuesPage(c *gin.Context) {
	venues, err := s.clientFor(c).ListVenues(c.Request.Context())
	if unauthorized(c, err) {
		return
	}
	p := page{Title: "Venues", Data: venues}
	if err != nil {
		p.Error = err.Error()
	}
	s.render(c, http.StatusOK, "venues", p)
}

type bookData struct {
	Venue     api.Venue
	StartDate string
	EndDate   string
	Today     string
	Quote     *daterange.Quote
	Booking   *api.Booking
}

// loadVenue finds the venue named by the :id path parameter. The API has no
// single-venue endpoint, so the list is fetched.
func (s *Server) loadVenue(c *gin.Context) (api.Venue, bool) {
	venues, err := s.clientFor(c).ListVenues(c.Request.Context())
	if unauthorized(c, err) {
		return api.Venue{}, false
	}
	if err != nil {
		s.render(c, http.StatusOK, "venues", page{Title: "Venues", Error: err.Error(), Data: venues})
		return api.Venue{}, false
	}
	id := c.Param("id")
	for _, v := range venues {
		if v.ID == id {
			return v, true
		}
	}
	s.render(c, http.StatusNotFound, "venues", page{Title: "Venues", Error: "Venue not found", Data: venues})
	return api.Venue{}, false
}

func (s *Server) bookPage(c *gin.Context) {
	venue, ok := s.loadVenue(c)
	if !ok {
		return
	}
	data := bookData{
		Venue:     venue,
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Today:     s.opts.Now().Format("2006-01-02"),
	}
	p := page{Title: "Book " + venue.Name}

	status := http.StatusOK
	if data.StartDate != "" || data.EndDate != "" {
		f := form.Booking{StartDate: data.StartDate, EndDate: data.EndDate}
		r, err := f.Validate(s.opts.Now())
		if err == nil {
			var q daterange.Quote
			if q, err = r.Quote(venue.PricePerDay); err == nil {
				data.Quote = &q
			}
		}
		if err != nil {
			p, status = withFormError(p, err)
		}
	}
	p.Data = data
	s.render(c, status, "book", p)
}

// postedVenue rebuilds the venue shown on the booking page from the hidden
// fields it posted, so a submit costs exactly one API request.
func postedVenue(c *gin.Context) api.Venue {
	v := api.Venue{
		ID:       c.Param("id"),
		Name:     strings.TrimSpace(c.PostForm("venueName")),
		Location: strings.TrimSpace(c.PostForm("venueLocation")),
	}
	if price, err := strconv.ParseFloat(c.PostForm("pricePerDay"), 64); err == nil && price > 0 && !math.IsInf(price, 0) {
		v.PricePerDay = price
	}
	if capacity, err := strconv.Atoi(c.PostForm("capacity")); err == nil && capacity > 0 {
		v.Capacity = capacity
	}
	if v.Name == "" {
		v.Name = "Venue"
	}
	return v
}

func (s *Server) book(c *gin.Context) {
	venue := postedVenue(c)
	f := form.Booking{StartDate: c.PostForm("startDate"), EndDate: c.PostForm("endDate")}
	data := bookData{
		Venue:     venue,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Today:     s.opts.Now().Format("2006-01-02"),
	}
	p := page{Title: "Book " + venue.Name}

	r, err := f.Validate(s.opts.Now())
	if err != nil {
		p, status := withFormError(p, err)
		p.Data = data
		s.render(c, status, "book", p)
		return
	}
	if venue.PricePerDay > 0 {
		if q, err := r.Quote(venue.PricePerDay); err == nil {
			data.Quote = &q
		}
	}

	booking, err := s.clientFor(c).CreateBooking(c.Request.Context(), api.CreateBookingRequest{
		VenueID:   venue.ID,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	})
	if unauthorized(c, err) {
		return
	}
	if err != nil {
		p.Error = err.Error()
	} else {
		p.Notice = "Booking successful!"
		data.Booking = &booking
	}
	p.Data = data
	s.render(c, http.StatusOK, "book", p)
}

func (s *Server) myBookingsPage(c *gin.Context) {
	bookings, err := s.clientFor(c).ListMyBookings(c.Request.Context())
	if unauthorized(c, err) {
		return
	}
	p := page{Title: "My bookings", Data: bookings}
	if err != nil {
		p.Error = err.Error()
	}
	s.render(c, http.StatusOK, "bookings", p)
}

func (s *Server) adminPage(c *gin.Context) {
	venues, err := s.clientFor(c).ListVenues(c.Request.Context())
	if unauthorized(c, err) {
		return
	}
	p := page{Title: "Admin", Data: venues}
	if err != nil {
		p.Error = err.Error()
	}
	if c.Query("created") != "" {
		p.Notice = "Venue created successfully!"
	}
	s.render(c, http.StatusOK, "admin", p)
}

type venueFormData struct {
	Input  form.VenueInput
	Common []string
}

func (s *Server) newVenuePage(c *gin.Context) {
	s.render(c, http.StatusOK, "venue_new", page{
		Title: "New venue",
		Data:  venueFormData{Common: form.CommonAmenities},
	})
}

func (s *Server) createVenue(c *gin.Context) {
	in := form.VenueInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		Capacity:    c.PostForm("capacity"),
		PricePerDay: c.PostForm("pricePerDay"),
		Amenities:   c.PostFormArray("amenities"),
	}
	in.Amenities = append(in.Amenities, strings.Split(c.PostForm("customAmenities"), ",")...)
	p := page{Title: "New venue", Data: venueFormData{Input: in, Common: form.CommonAmenities}}

	v, err := in.Validate()
	if err != nil {
		p, status := withFormError(p, err)
		s.render(c, status, "venue_new", p)
		return
	}

	_, err = s.clientFor(c).CreateVenue(c.Request.Context(), api.CreateVenueRequest{
		Name:        v.Name,
		Description: v.Description,
		Location:    v.Location,
		Capacity:    v.Capacity,
		PricePerDay: v.PricePerDay,
		Amenities:   v.Amenities,
	})
	if unauthorized(c, err) {
		return
	}
	if err != nil {
		p.Error = err.Error()
		s.render(c, http.StatusOK, "venue_new", p)
		return
	}
	c.Redirect(http.StatusSeeOther, routePaths["admin"]+"?created=1")
}

type venueBookingsData struct {
	VenueID  string
	Bookings []api.Booking
}

func (s *Server) venueBookingsPage(c *gin.Context) {
	id := c.Param("id")
	bookings, err := s.clientFor(c).ListVenueBookings(c.Request.Context(), id)
	if unauthorized(c, err) {
		return
	}
	p := page{Title: "Venue bookings", Data: venueBookingsData{VenueID: id, Bookings: bookings}}
	if err != nil {
		p.Error = err.Error()
	}
	s.render(c, http.StatusOK, "venue_bookings", p)
}

type blockData struct {
	VenueID string
	Form    form.Block
	Days    string
	Default string
}

func (s *Server) blockPage(c *gin.Context) {
	s.render(c, http.StatusOK, "block", page{
		Title: "Block dates",
		Data:  blockData{VenueID: c.Param("id"), Default: form.DefaultBlockReason},
	})
}

func (s *Server) block(c *gin.Context) {
	f := form.Block{
		StartDate: c.PostForm("startDate"),
		EndDate:   c.PostForm("endDate"),
		Reason:    c.PostForm("reason"),
	}
	data := blockData{VenueID: c.Param("id"), Form: f, Default: form.DefaultBlockReason}
	p := page{Title: "Block dates"}

	r, err := f.Validate()
	if err != nil {
		p, status := withFormError(p, err)
		p.Data = data
		s.render(c, status, "block", p)
		return
	}
	if days, err := r.Days(); err == nil {
		data.Days = daterange.DayLabel(days)
	}

	result, err := s.clientFor(c).BlockVenueDates(c.Request.Context(), data.VenueID, api.BlockRange{
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Reason:    f.ReasonOrDefault(),
	})
	if unauthorized(c, err) {
		return
	}
	if err != nil {
		p.Error = err.Error()
	} else {
		p.Notice = "Dates blocked successfully"
		if msg, ok := result["message"].(string); ok && msg != "" {
			p.Notice = msg
		}
	}
	p.Data = data
	s.render(c, http.StatusOK, "block", p)
}
