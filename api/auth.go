package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token and stores it in the
// client's session.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, call{
		op:     OpLogin,
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   LoginRequest{Email: email, Password: password},
		key:    []string{strings.ToLower(email)},
	}, &resp)
	if err != nil {
		return AuthResponse{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return AuthResponse{}, &RequestError{
			Op:         OpLogin,
			StatusCode: http.StatusOK,
			Message:    OpLogin.FallbackMessage(),
			Err:        fmt.Errorf("login response missing token"),
		}
	}

	if c.Session != nil {
		if err := c.Session.SetToken(resp.Token); err != nil {
			return AuthResponse{}, err
		}
	}
	return resp, nil
}
