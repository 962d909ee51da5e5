package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"venue-cli/api"
	"venue-cli/view"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"sign_in", "register", "venues", "book", "bookings",
	"admin", "venue_new", "venue_bookings", "block",
}

type pages map[string]*template.Template

var funcs = template.FuncMap{
	"price":         view.Price,
	"number":        func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
	"bookingPrice":  view.BookingPrice,
	"date":          view.Date,
	"dates":         view.Dates,
	"days":          view.BookingDays,
	"status":        view.Status,
	"venueName":     view.VenueName,
	"venueLocation": view.VenueLocation,
	"amenities":     view.Amenities,
	"owner":         view.Owner,
	"requester":     func(b api.Booking) api.Person { return b.Requester() },
	"has": func(list []string, item string) bool {
		for _, v := range list {
			if v == item {
				return true
			}
		}
		return false
	},
}

func mustParsePages() pages {
	p := pages{}
	for _, name := range pageNames {
		p[name] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return p
}

// page is the data every template receives.
type page struct {
	Title    string
	SignedIn bool
	Error    string
	Notice   string
	Errors   map[string]string
	Data     any
}

func (s *Server) render(c *gin.Context, status int, name string, p page) {
	p.SignedIn = sessionFrom(c).Authenticated()
	var buf bytes.Buffer
	if err := s.pages[name].Execute(&buf, p); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
