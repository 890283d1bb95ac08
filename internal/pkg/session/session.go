// Package session is the signed-in identity carried through a request.
//
// A session is created when a customer proves control of their email
// (Manager.Issue), travels to the client as an HS512 JWT, and is loaded back
// into the request context by the router (Manager.Parse + WithSession).
package session

import (
	"context"
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrInvalidSigningMethod = errors.New("session: invalid signing method")
	ErrSigningKeyTooShort   = errors.New("session: HS512 signing key must be at least 64 bytes")
	ErrExpired              = errors.New("session: token expired")
	ErrInvalidToken         = errors.New("session: invalid token")
)

// Session is the authenticated principal of a request.
type Session struct {
	ID        string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type contextKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
