package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/session"
)

var _ session.AuthProvider = (*Client)(nil)

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u userResponse) toUser() (*models.User, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", u.ID, err)
	}
	return &models.User{ID: id, Email: u.Email}, nil
}

func (t tokenResponse) toSession(now time.Time) (*models.Session, error) {
	user, err := t.User.toUser()
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(time.Duration(t.ExpiresIn) * time.Second)
	if t.ExpiresAt > 0 {
		expiresAt = time.Unix(t.ExpiresAt, 0)
	}
	return &models.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// SendMagicLink asks GoTrue to email a one-time sign-in link. New users are
// created on first sign-in.
func (c *Client) SendMagicLink(ctx context.Context, email, redirectTo, codeChallenge string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	body := map[string]any{
		"email":                 email,
		"create_user":           true,
		"code_challenge":        codeChallenge,
		"code_challenge_method": session.CodeChallengeMethod,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/otp", query, body, c.anonKey)
	if err != nil {
		return err
	}
	return c.do(ctx, "auth", req, nil)
}

// ExchangeCode completes a PKCE magic-link sign-in.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.Session, error) {
	body := map[string]string{
		"auth_code":     code,
		"code_verifier": codeVerifier,
	}
	return c.token(ctx, "pkce", body)
}

// Refresh trades a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	return c.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) token(ctx context.Context, grantType string, body any) (*models.Session, error) {
	query := url.Values{"grant_type": {grantType}}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token", query, body, c.anonKey)
	if err != nil {
		return nil, err
	}

	var out tokenResponse
	if err := c.do(ctx, "auth", req, &out); err != nil {
		return nil, err
	}
	return out.toSession(time.Now())
}

// GetUser validates accessToken with GoTrue and returns its user.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil, nil, accessToken)
	if err != nil {
		return nil, err
	}

	var out userResponse
	if err := c.do(ctx, "auth", req, &out); err != nil {
		return nil, err
	}
	return out.toUser()
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, accessToken)
	if err != nil {
		return err
	}
	return c.do(ctx, "auth", req, nil)
}
