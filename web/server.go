// Package web serves the browser front end. Every page is a view over the
// remote venue API; the session token lives in a cookie.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"venue-cli/api"
	"venue-cli/session"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// routePaths maps guard route names to browser paths.
var routePaths = map[string]string{
	session.RouteSignIn:   "/sign-in",
	session.RouteRegister: "/register",
	"venues":              "/",
	"my-bookings":         "/bookings",
	"admin":               "/admin",
}

type Options struct {
	Logger       *slog.Logger
	Guard        *session.Guard
	SecureCookie bool
	Now          func() time.Time
}

type Server struct {
	client *api.Client
	opts   Options
	logger *slog.Logger
	pages  pages
	engine *gin.Engine
}

// NewServer builds the router. client is the shared API client; each
// request binds it to that request's session.
func NewServer(client *api.Client, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Guard == nil {
		opts.Guard = session.NewGuard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		client: client,
		opts:   opts,
		logger: opts.Logger,
		pages:  mustParsePages(),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(recovery(s.logger), requestLogger(s.logger), s.withSession())

	r.GET("/sign-in", s.guard(session.RouteSignIn), s.signInPage)
	r.POST("/sign-in", s.guard(session.RouteSignIn), s.signIn)
	r.GET("/register", s.guard(session.RouteRegister), s.registerPage)
	r.POST("/sign-out", s.guard("sign-out"), s.signOut)

	r.GET("/", s.guard("venues"), s.venuesPage)
	r.GET("/venues/:id/book", s.guard("book"), s.bookPage)
	r.POST("/venues/:id/book", s.guard("book"), s.book)
	r.GET("/bookings", s.guard("my-bookings"), s.myBookingsPage)

	admin := r.Group("/admin", s.guard("admin"))
	admin.GET("", s.adminPage)
	admin.GET("/venues/new", s.newVenuePage)
	admin.POST("/venues/new", s.createVenue)
	admin.GET("/venues/:id", s.venueBookingsPage)
	admin.GET("/venues/:id/block", s.blockPage)
	admin.POST("/venues/:id/block", s.block)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down and aborts any API
// request still in flight.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	s.client.CancelAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// clientFor binds the shared client to the request's session.
func (s *Server) clientFor(c *gin.Context) *api.Client {
	return s.client.WithSession(sessionFrom(c))
}
