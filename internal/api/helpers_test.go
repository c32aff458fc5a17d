package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPath(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/fallback"},
		{"/account/profile", "/account/profile"},
		{"/u/ada?tab=links", "/u/ada?tab=links"},
		{"https://evil.example/", "/fallback"},
		{"//evil.example", "/fallback"},
		{"/\\evil.example", "/fallback"},
		{"relative", "/fallback"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, localPath(tt.next, "/fallback"), tt.next)
	}
}

func TestSignInURL(t *testing.T) {
	assert.Equal(t, "/auth/sign-in", signInURL("", ""))
	assert.Equal(t, "/auth/sign-in?next=%2Faccount%2Fprofile", signInURL("/account/profile", ""))
	assert.Equal(t, "/auth/sign-in?error=Token+has+expired", signInURL("", "Token has expired"))
}

func TestCallbackURL(t *testing.T) {
	s := &Server{SiteURL: "https://skillswap.example/"}
	assert.Equal(t, "https://skillswap.example/auth/callback", s.callbackURL(""))
	assert.Equal(t, "https://skillswap.example/auth/callback?next=%2Fu%2Fada", s.callbackURL("/u/ada"))
}
