package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	tokenCookie    = "token"
	tokenCookieAge = 7 * 24 * 60 * 60
)

// cookieStore persists the session token in an HttpOnly cookie on the
// current request.
type cookieStore struct {
	c      *gin.Context
	secure bool
}

func (s *cookieStore) Load() (string, error) {
	token, err := s.c.Cookie(tokenCookie)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	return token, err
}

func (s *cookieStore) Save(token string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(tokenCookie, token, tokenCookieAge, "/", "", s.secure, true)
	return nil
}

func (s *cookieStore) Delete() error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(tokenCookie, "", -1, "/", "", s.secure, true)
	return nil
}
