package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/vytor/skillswap/internal/models"
)

// AuthProvider is the hosted authentication service.
type AuthProvider interface {
	// SendMagicLink emails a one-time sign-in link that redirects to redirectTo.
	SendMagicLink(ctx context.Context, email, redirectTo, codeChallenge string) error
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// StatusError is implemented by provider errors that carry the HTTP status
// of the failed request.
type StatusError interface {
	error
	StatusCode() int
}

// IsRejected reports whether err means the provider refused the token.
// Transport failures, 5xx responses, timeouts and rate limiting are not
// rejections: the token may still be good.
func IsRejected(err error) bool {
	var se StatusError
	if !errors.As(err, &se) {
		return false
	}
	code := se.StatusCode()
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return false
	}
	return code >= 400 && code < 500
}
