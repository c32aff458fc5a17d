package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
)

// refreshLeeway refreshes tokens that are about to expire before handlers use them.
const refreshLeeway = time.Minute

// ErrMissingCodeVerifier is returned when a callback arrives without the
// verifier cookie set at sign-in, e.g. when the link is opened on another device.
var ErrMissingCodeVerifier = errors.New("sign-in link must be opened in the browser that requested it")

// Client is a per-request view of the visitor's authentication state. It
// reads and writes the session cookies and publishes every presence change
// on its Broadcaster.
type Client struct {
	provider AuthProvider
	verifier *TokenVerifier
	cookies  CookieConfig
	w        http.ResponseWriter
	r        *http.Request
	events   *Broadcaster
	now      func() time.Time

	loaded  bool
	session *models.Session
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithVerifier enables local access-token verification.
func WithVerifier(v *TokenVerifier) ClientOption {
	return func(c *Client) {
		c.verifier = v
	}
}

// WithCookieConfig sets cookie attributes.
func WithCookieConfig(cfg CookieConfig) ClientOption {
	return func(c *Client) {
		c.cookies = cfg
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient binds a Client to one request/response pair.
func NewClient(provider AuthProvider, w http.ResponseWriter, r *http.Request, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		w:        w,
		r:        r,
		events:   NewBroadcaster(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events is the stream of session presence changes for this request.
func (c *Client) Events() *Broadcaster {
	return c.events
}

// GetSession returns the current session, refreshing an expired access token
// when a refresh token is available. It returns nil when the visitor is
// signed out. The result is cached for the lifetime of the Client.
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	if c.loaded {
		return c.session, nil
	}
	log := logger.FromContext(ctx).WithPrefix("session")

	access := cookieValue(c.r, AccessTokenCookie)
	refresh := cookieValue(c.r, RefreshTokenCookie)
	if access == "" && refresh == "" {
		c.settle(nil)
		return nil, nil
	}

	// checkErr is set when the provider could not be asked about the access
	// token. The cookies are kept so the next request can try again.
	var checkErr error
	if access != "" {
		sess, err := c.sessionFromAccessToken(ctx, access)
		switch {
		case err == nil && !sess.Expired(c.now(), refreshLeeway):
			sess.RefreshToken = refresh
			c.settle(sess)
			return sess, nil
		case err == nil:
			log.Debug("access token near expiry, refreshing")
		case c.verifier == nil && !IsRejected(err):
			log.Warn("session check failed: %v", err)
			checkErr = err
		default:
			log.Debug("access token rejected: %v", err)
		}
	}

	if refresh == "" {
		c.settle(nil)
		if checkErr != nil {
			return nil, fmt.Errorf("check session: %w", checkErr)
		}
		c.clearSession()
		return nil, nil
	}

	sess, err := c.provider.Refresh(ctx, refresh)
	if err != nil {
		if IsRejected(err) {
			log.Warn("session refresh rejected: %v", err)
			c.clearSession()
		} else {
			log.Warn("session refresh failed, keeping cookies: %v", err)
		}
		c.settle(nil)
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	c.storeSession(sess)
	c.settle(sess)
	return sess, nil
}

func (c *Client) sessionFromAccessToken(ctx context.Context, access string) (*models.Session, error) {
	if c.verifier != nil {
		user, expiresAt, err := c.verifier.Verify(access)
		if err != nil {
			return nil, err
		}
		return &models.Session{AccessToken: access, ExpiresAt: expiresAt, User: user}, nil
	}

	user, err := c.provider.GetUser(ctx, access)
	if err != nil {
		return nil, err
	}
	return &models.Session{AccessToken: access, User: *user}, nil
}

// SignIn requests a magic link. The PKCE verifier is kept in a cookie so the
// callback can complete the exchange.
func (c *Client) SignIn(ctx context.Context, email, redirectTo string) error {
	verifier, err := NewCodeVerifier()
	if err != nil {
		return fmt.Errorf("generate code verifier: %w", err)
	}
	if err := c.provider.SendMagicLink(ctx, email, redirectTo, CodeChallenge(verifier)); err != nil {
		return err
	}
	c.cookies.set(c.w, CodeVerifierCookie, verifier, verifierCookieTTL)
	return nil
}

// ExchangeCode trades a magic-link code for a session and stores it.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*models.Session, error) {
	verifier := cookieValue(c.r, CodeVerifierCookie)
	if verifier == "" {
		return nil, ErrMissingCodeVerifier
	}

	sess, err := c.provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, err
	}
	c.cookies.clear(c.w, CodeVerifierCookie)
	c.storeSession(sess)
	c.settle(sess)
	return sess, nil
}

// SignOut revokes the session with the provider and always clears the local
// cookies. The provider error, if any, is returned for logging.
func (c *Client) SignOut(ctx context.Context) error {
	access := cookieValue(c.r, AccessTokenCookie)
	if c.loaded && c.session != nil {
		access = c.session.AccessToken
	}

	var err error
	if access != "" {
		err = c.provider.SignOut(ctx, access)
	}
	c.clearSession()
	c.settle(nil)
	return err
}

func (c *Client) settle(sess *models.Session) {
	c.loaded = true
	c.session = sess
	c.events.Publish(sess != nil)
}

func (c *Client) storeSession(sess *models.Session) {
	c.cookies.set(c.w, AccessTokenCookie, sess.AccessToken, sessionCookieTTL)
	if sess.RefreshToken != "" {
		c.cookies.set(c.w, RefreshTokenCookie, sess.RefreshToken, sessionCookieTTL)
	}
}

func (c *Client) clearSession() {
	c.cookies.clear(c.w, AccessTokenCookie)
	c.cookies.clear(c.w, RefreshTokenCookie)
}
