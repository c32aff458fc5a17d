package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/models"
)

// ErrTokenExpired is returned by Verify for a well-signed but expired token.
var ErrTokenExpired = errors.New("access token expired")

// Claims are the parts of a Supabase access token the app reads.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 access tokens locally with the project's JWT
// secret, avoiding a round trip to the auth provider on every request.
type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), now: time.Now}
}

// Verify parses token and returns the user and expiry it carries.
func (v *TokenVerifier) Verify(token string) (models.User, time.Time, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.User{}, time.Time{}, ErrTokenExpired
		}
		return models.User{}, time.Time{}, fmt.Errorf("verify access token: %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.User{}, time.Time{}, fmt.Errorf("access token subject %q: %w", claims.Subject, err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return models.User{ID: id, Email: claims.Email}, expiresAt, nil
}
