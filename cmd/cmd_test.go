package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"venue-cli/config"
	"venue-cli/form"
	"venue-cli/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
}

func (f *fakeAPI) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	f.bodies[key] = body
}

func (f *fakeAPI) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeAPI) body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func newFakeAPI(t *testing.T, routes map[string]http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{bodies: map[string][]byte{}}
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

var testNow = time.Date(2023, 12, 1, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, apiURL, token string) *App {
	t.Helper()
	sess, err := session.New(session.NewMemoryStore(token))
	require.NoError(t, err)
	return &App{
		Config:  &config.Config{APIBaseURL: apiURL, Environment: "test", RequestTimeout: 5},
		Logger:  slog.New(slog.DiscardHandler),
		Session: sess,
		Guard:   session.NewGuard(),
		Now:     func() time.Time { return testNow },
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, a *App, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

const venuesJSON = `[{"_id":"v1","name":"Grand Hall","description":"Big","location":"Pune","capacity":300,"pricePerDay":10000,"amenities":["WiFi","Parking"],"owner":{"name":"Raj","email":"raj@example.com"}}]`

func TestGuardRedirectsBeforeProtectedView(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/venues": jsonResponse(http.StatusOK, venuesJSON),
	})
	a := newTestApp(t, api.URL, "")

	res := run(t, a, "", "venues", "list")

	require.Error(t, res.err)
	verr, ok := form.AsValidation(res.err)
	require.True(t, ok)
	assert.Equal(t, "Email is required", verr.Field("email"))
	assert.Contains(t, res.stderr, "Sign in required.")
	assert.NotContains(t, res.stdout, "Grand Hall")
	assert.Empty(t, api.calls())
}

func TestGuardSignInThenNavigate(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": jsonResponse(http.StatusOK, `{"token":"tok-1"}`),
		"GET /api/venues":      jsonResponse(http.StatusOK, venuesJSON),
	})
	a := newTestApp(t, api.URL, "")

	res := run(t, a, "user@example.com\nsecret\n", "venues", "list")
	require.ErrorIs(t, res.err, errRedirected)
	assert.Contains(t, res.stdout, "Signed in as user@example.com.")
	assert.NotContains(t, res.stdout, "Grand Hall")
	assert.Equal(t, "tok-1", a.Session.CurrentToken())
	assert.Equal(t, []string{"POST /api/auth/login"}, api.calls())

	res = run(t, a, "", "venues", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Grand Hall")
	assert.Contains(t, res.stdout, "₹10,000")
}

func TestSignInNeverRedirects(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": jsonResponse(http.StatusUnauthorized, `{"message":"Invalid credentials"}`),
	})
	a := newTestApp(t, api.URL, "")

	res := run(t, a, "", "sign-in", "--email", "user@example.com", "--password", "wrong")

	require.Error(t, res.err)
	assert.Equal(t, "Invalid credentials", res.err.Error())
	assert.NotContains(t, res.stderr, "Sign in required.")
	assert.False(t, a.Session.Authenticated())
}

func TestSignInPersistsTokenAcrossRuns(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": jsonResponse(http.StatusOK, `{"token":"tok-persisted"}`),
	})
	dataDir := t.TempDir()

	first := &App{
		Config: &config.Config{APIBaseURL: api.URL, DataDir: dataDir},
		Logger: slog.New(slog.DiscardHandler),
	}
	res := run(t, first, "", "sign-in", "--email", "user@example.com", "--password", "secret")
	require.NoError(t, res.err)
	first.Close()

	second := &App{
		Config: &config.Config{APIBaseURL: api.URL, DataDir: dataDir},
		Logger: slog.New(slog.DiscardHandler),
	}
	t.Cleanup(second.Close)
	res = run(t, second, "", "status")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Signed in.")
	assert.Equal(t, "tok-persisted", second.Session.CurrentToken())
	assert.FileExists(t, filepath.Join(dataDir, "local.db"))
}

func TestSignInFromAuthFile(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": jsonResponse(http.StatusOK, `{"token":"tok-file"}`),
	})
	path := filepath.Join(t.TempDir(), "auth")
	require.NoError(t, os.WriteFile(path, []byte("[username]\nfile@example.com\n[password]\nhunter2\n"), 0o600))
	a := newTestApp(t, api.URL, "")

	res := run(t, a, "", "sign-in", "--auth-file", path)

	require.NoError(t, res.err)
	var login map[string]string
	require.NoError(t, json.Unmarshal(api.body("POST /api/auth/login"), &login))
	assert.Equal(t, "file@example.com", login["email"])
	assert.Equal(t, "hunter2", login["password"])
}

func TestSignOutClearsSession(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1", "tok")

	res := run(t, a, "", "sign-out")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Signed out.")
	assert.False(t, a.Session.Authenticated())
}

func TestCreateVenueWithZeroCapacityMakesNoRequest(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/venues": jsonResponse(http.StatusCreated, `{"_id":"v9"}`),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "admin", "create-venue",
		"--name", "Hall", "--description", "Big", "--location", "Pune",
		"--capacity", "0", "--price", "5000", "--amenity", "WiFi")

	verr, ok := form.AsValidation(res.err)
	require.True(t, ok)
	assert.Equal(t, "Valid capacity is required", verr.Field("capacity"))
	assert.Empty(t, api.calls())
}

func TestCreateVenueSendsNumbers(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/venues": jsonResponse(http.StatusCreated, `{"_id":"v9","name":"Hall"}`),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "admin", "create-venue",
		"--name", " Hall ", "--description", "Big", "--location", "Pune",
		"--capacity", "250", "--price", "7500.50", "--amenity", "WiFi", "--amenity", " WiFi ", "--amenity", "Stage")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Venue created successfully: Hall (v9).")
	var body map[string]any
	require.NoError(t, json.Unmarshal(api.body("POST /api/venues"), &body))
	assert.Equal(t, "Hall", body["name"])
	assert.Equal(t, 250.0, body["capacity"])
	assert.Equal(t, 7500.5, body["pricePerDay"])
	assert.Equal(t, []any{"WiFi", "Stage"}, body["amenities"])
}

func TestVenuesListServerError(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/venues": jsonResponse(http.StatusInternalServerError, ``),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "venues", "list")

	require.Error(t, res.err)
	assert.Equal(t, "Failed to fetch venues", res.err.Error())
	assert.NotContains(t, res.stdout, "No venues available.")
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/bookings/my-bookings": jsonResponse(http.StatusUnauthorized, `{"message":"Token expired"}`),
	})
	a := newTestApp(t, api.URL, "stale")

	res := run(t, a, "", "bookings", "mine")

	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Error: Token expired")
	assert.Contains(t, res.stderr, "Sign in required.")
	assert.False(t, a.Session.Authenticated())
}

func TestMyBookings(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/bookings/my-bookings": jsonResponse(http.StatusOK, `[
			{"_id":"b1","venue":{"_id":"v1","name":"Grand Hall","location":"Pune"},
			 "startDate":"2024-01-01T00:00:00.000Z","endDate":"2024-01-03T00:00:00.000Z",
			 "totalPrice":20000,"status":"confirmed"}
		]`),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "bookings", "mine")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Grand Hall")
	assert.Contains(t, res.stdout, "Jan 1, 2024 - Jan 3, 2024")
	assert.Contains(t, res.stdout, "2 days")
	assert.Contains(t, res.stdout, "₹20,000")
	assert.Contains(t, res.stdout, "Confirmed")
}

func TestBookQuoteOnly(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/venues": jsonResponse(http.StatusOK, venuesJSON),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "book", "--venue", "grand hall", "--from", "2024-01-01", "--to", "2024-01-03", "--quote")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "₹10,000 x 2 days")
	assert.Contains(t, res.stdout, "Total:  ₹20,000")
	assert.Equal(t, []string{"GET /api/venues"}, api.calls())
}

func TestBookCreatesBooking(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/venues":    jsonResponse(http.StatusOK, venuesJSON),
		"POST /api/bookings": jsonResponse(http.StatusCreated, `{"_id":"b7","status":"pending"}`),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "book", "--venue", "v1", "--from", "2024-01-01", "--to", "2024-01-03")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Booking successful!")
	assert.Contains(t, res.stdout, "Booking b7 is pending.")
	var body map[string]string
	require.NoError(t, json.Unmarshal(api.body("POST /api/bookings"), &body))
	assert.Equal(t, map[string]string{"venueId": "v1", "startDate": "2024-01-01", "endDate": "2024-01-03"}, body)
}

func TestBookRejectsInvalidRangeLocally(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "book", "--venue", "v1", "--from", "2024-01-03", "--to", "2024-01-03")

	verr, ok := form.AsValidation(res.err)
	require.True(t, ok)
	assert.Equal(t, "End date must be after start date", verr.Field("endDate"))
	assert.Empty(t, api.calls())

	res = run(t, a, "", "book", "--venue", "v1", "--from", "2023-11-01", "--to", "2023-11-03")
	verr, ok = form.AsValidation(res.err)
	require.True(t, ok)
	assert.Equal(t, "Start date cannot be in the past", verr.Field("startDate"))
	assert.Empty(t, api.calls())
}

func TestAdminBlockUsesDefaultReason(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/venues/v1/block": jsonResponse(http.StatusOK, `{"message":"Dates blocked"}`),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "admin", "block", "v1", "--from", "2024-02-10", "--to", "2024-02-12")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Blocked Feb 10, 2024 to Feb 12, 2024 (2 days): Blocked by admin")
	var body map[string]string
	require.NoError(t, json.Unmarshal(api.body("POST /api/venues/v1/block"), &body))
	assert.Equal(t, "Blocked by admin", body["reason"])
}

func TestAdminVenueBookings(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/venues/v1/bookings": jsonResponse(http.StatusOK, `[
			{"_id":"b1","user":{"name":"Asha","email":"asha@example.com"},
			 "startDate":"2024-01-01","endDate":"2024-01-02","amount":5000,"bookingDate":"2023-12-01"}
		]`),
	})
	a := newTestApp(t, api.URL, "tok")

	res := run(t, a, "", "admin", "bookings", "v1")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1 booking\n")
	assert.Contains(t, res.stdout, "Asha")
	assert.Contains(t, res.stdout, "asha@example.com")
	assert.Contains(t, res.stdout, "₹5,000")
	assert.Contains(t, res.stdout, "Pending")
	assert.Contains(t, res.stdout, "Dec 1, 2023")
}

func TestAmenitiesJSON(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1", "tok")

	res := run(t, a, "", "admin", "amenities", "--json")

	require.NoError(t, res.err)
	var amenities []string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &amenities))
	assert.Equal(t, form.CommonAmenities, amenities)
}

func TestJSONAndCompactConflict(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1", "tok")

	res := run(t, a, "", "venues", "list", "--json", "--compact")

	require.EqualError(t, res.err, "choose either --json or --compact")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &form.ValidationError{Fields: map[string]string{
		"submit":   "Please select both start and end dates",
		"capacity": "Valid capacity is required",
	}})
	assert.Equal(t, "Error: capacity: Valid capacity is required\nError: Please select both start and end dates\n", buf.String())
}

func TestDateArg(t *testing.T) {
	assert.Equal(t, "2023-12-01", dateArg("today", testNow))
	assert.Equal(t, "2023-12-02", dateArg(" Tomorrow ", testNow))
	assert.Equal(t, "2024-05-01", dateArg("2024-05-01", testNow))
	assert.Equal(t, "", dateArg("", testNow))
}
