package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmailNotVerified is returned when signing in before verifying the address.
	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	// ErrNotSignedIn is returned for account operations without a session.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrMissingCredentials is returned when email or password is blank.
	ErrMissingCredentials = errors.New("please fill in all fields")
)

// Session is a signed-in account.
type Session struct {
	UID           string    `yaml:"uid"`
	Email         string    `yaml:"email"`
	IDToken       string    `yaml:"id_token"`
	RefreshToken  string    `yaml:"refresh_token"`
	ExpiresAt     time.Time `yaml:"expires_at"`
	EmailVerified bool      `yaml:"email_verified"`
}

// Expired reports whether the ID token has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Provider is the account capability the screens depend on.
type Provider interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Current() *Session
	Subscribe(fn func(*Session)) (unsubscribe func())
	UpdateEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) error
}
