package session

import (
	"context"

	"github.com/vytor/skillswap/internal/models"
)

type clientKey struct{}
type sessionKey struct{}

// NewContext returns a context carrying the request's Client.
func NewContext(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext returns the request's Client, or nil.
func ClientFromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientKey{}).(*Client)
	return c
}

// WithSession returns a context carrying the resolved session.
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the resolved session, or nil when signed out.
func FromContext(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey{}).(*models.Session)
	return s
}
