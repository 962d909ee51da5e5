package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a token without verifying it. It is for
// display only and never feeds the guard.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DescribeToken decodes JWT claims when the token is a JWT. Opaque tokens
// return ok=false.
func DescribeToken(token string) (TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}

	info := TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		if id, ok := claims["id"].(string); ok {
			info.Subject = id
		}
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		info.ExpiresAt = &t
	}
	return info, true
}
