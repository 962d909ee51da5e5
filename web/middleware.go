package web

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"venue-cli/api"
	"venue-cli/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// requestLogger logs each request with method, path, status, and duration.
// Bodies are never logged.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()

		c.Next()
	}
}

// withSession restores the request's session from its cookie.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := session.New(&cookieStore{c: c, secure: s.opts.SecureCookie})
		if err != nil {
			s.logger.Error("restore session", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// guard runs before the view registered for route and redirects to sign-in
// when the route needs a session the request does not have.
func (s *Server) guard(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := s.opts.Guard.Check(route, sessionFrom(c).Authenticated())
		if decision.Allow {
			c.Request = c.Request.WithContext(api.WithView(c.Request.Context(), route))
			c.Next()
			return
		}
		s.logger.Debug("guard redirect", "route", route, "path", c.Request.URL.Path)
		c.Redirect(http.StatusFound, routePaths[decision.RedirectTo])
		c.Abort()
	}
}

func sessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
