package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/profile"
	"github.com/vytor/skillswap/internal/session"
	"github.com/vytor/skillswap/internal/telemetry"
)

const (
	publicCacheControl  = "public, max-age=60"
	privateCacheControl = "private, no-store"
)

// setProfileCacheHeaders lets shared caches keep the page only when it was
// rendered for an anonymous visitor and carries no cookies.
func setProfileCacheHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "Cookie")
	if session.FromContext(r.Context()) == nil && len(w.Header().Values("Set-Cookie")) == 0 {
		w.Header().Set("Cache-Control", publicCacheControl)
		return
	}
	w.Header().Set("Cache-Control", privateCacheControl)
}

// handlePublicProfile renders /u/{username}. A missing row and a failed
// lookup both render the not-found page.
func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	if unescaped, err := url.PathUnescape(username); err == nil {
		username = unescaped
	}
	log := logger.FromContext(ctx).WithField("username", username)

	setProfileCacheHeaders(w, r)

	p, err := s.ProfileService.GetPublicProfile(ctx, username)
	if err != nil {
		if !errors.IsNotFound(err) {
			log.Error("public profile lookup failed: %v", err)
			telemetry.Capture(ctx, err)
		}
		s.render(w, r, http.StatusNotFound, "pages/not_found.html", pageData{
			"title":   "Profile not found • SkillSwap",
			"noindex": true,
		})
		return
	}

	view := profile.NewPublicView(*p, url.PathEscape(username))
	s.render(w, r, http.StatusOK, "pages/public_profile.html", pageData{
		"title":       view.Title,
		"description": view.Description,
		"canonical":   s.absoluteURL(view.Canonical),
		"social":      view,
		"view":        view,
	})
}
