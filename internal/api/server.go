package api

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/services"
	"github.com/vytor/skillswap/internal/session"
)

type Server struct {
	ProfileService services.ProfileService
	SkillService   services.SkillService
	Auth           session.AuthProvider
	// Verifier checks access tokens locally. When nil every request asks
	// the auth provider.
	Verifier  *session.TokenVerifier
	Cookies   session.CookieConfig
	Templates *template.Template
	Static    fs.FS
	// SiteURL is the absolute origin used for magic-link redirects and
	// canonical URLs.
	SiteURL string
}

type pageData map[string]any

func (s *Server) newSessionClient(w http.ResponseWriter, r *http.Request) *session.Client {
	opts := []session.ClientOption{session.WithCookieConfig(s.Cookies)}
	if s.Verifier != nil {
		opts = append(opts, session.WithVerifier(s.Verifier))
	}
	return session.NewClient(s.Auth, w, r, opts...)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["session_user"]; !ok {
		s.addNavigation(r, data)
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
	}
}

// addNavigation fills the header's signed-in state. A failed username
// lookup only hides the public profile link.
func (s *Server) addNavigation(r *http.Request, data pageData) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		data["session_user"] = nil
		return
	}
	data["session_user"] = &sess.User

	if _, ok := data["nav_username"]; ok {
		return
	}
	p, err := s.ProfileService.GetProfile(r.Context(), sess.User.ID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("failed to load header profile: %v", err)
		return
	}
	if p != nil {
		data["nav_username"] = models.StringValue(p.Username)
	}
}
