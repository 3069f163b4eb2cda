// Package auth issues and verifies the session tokens that identify donors.
// A session is an HS256 JWT whose "email" claim is the caller's identity; it
// travels in the "token" cookie or an Authorization bearer header.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

const (
	// CookieName is the session cookie set by the login flow
	CookieName = "token"

	// EmailClaim holds the verified identity
	EmailClaim = "email"

	// DefaultTTL is the lifetime of issued sessions
	DefaultTTL = 7 * 24 * time.Hour

	algorithm = "HS256"
)

// Authenticator signs and verifies session tokens
type Authenticator struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
}

// Option configures an Authenticator
type Option func(*Authenticator)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		a.ttl = ttl
	}
}

// New creates an Authenticator keyed by secret
func New(secret string, opts ...Option) (*Authenticator, error) {
	if secret == "" {
		return nil, &giveaway.ConfigError{Variable: "TOKEN_SECRET"}
	}

	a := &Authenticator{
		ja:  jwtauth.New(algorithm, []byte(secret), nil),
		ttl: DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// IssueToken returns a signed session token for email
func (a *Authenticator) IssueToken(email string) (string, error) {
	return a.IssueTokenWithTTL(email, a.ttl)
}

// IssueTokenWithTTL returns a signed session token for email valid for ttl
func (a *Authenticator) IssueTokenWithTTL(email string, ttl time.Duration) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", giveaway.NewValidationError("Validation error", []giveaway.Issue{{Field: "email", Message: "Required"}})
	}

	claims := map[string]interface{}{EmailClaim: email}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, time.Now().Add(ttl))

	_, token, err := a.ja.Encode(claims)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Verifier is a middleware that verifies the session token of every request
// and stores the outcome in the request context. It never rejects requests;
// handlers decide via IdentityFromContext.
func (a *Authenticator) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(a.ja, tokenFromCookie, jwtauth.TokenFromHeader)
}

// IdentityFromContext returns the verified email of the caller. It reports
// false when the token is absent, invalid, expired or carries no email.
func IdentityFromContext(ctx context.Context) (string, bool) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return "", false
	}
	email, ok := claims[EmailClaim].(string)
	if !ok || strings.TrimSpace(email) == "" {
		return "", false
	}
	return email, true
}

func tokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
