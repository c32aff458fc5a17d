package api

import (
	"net/http"

	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/profile"
	"github.com/vytor/skillswap/internal/session"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	log.Debug("rendering home page")

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Redirect(w, r, signInURL(r.URL.RequestURI(), ""), http.StatusSeeOther)
		return
	}

	p, err := s.ProfileService.GetProfile(ctx, sess.User.ID)
	if err != nil {
		log.Warn("failed to load profile for home page: %v", err)
	}

	var username, fullName, avatarURL string
	if p != nil {
		username = models.StringValue(p.Username)
		fullName = models.StringValue(p.FullName)
		avatarURL = models.StringValue(p.AvatarURL)
	}

	displayName := fullName
	if displayName == "" {
		displayName = sess.User.Email
	}
	if displayName == "" {
		displayName = "there"
	}

	s.render(w, r, http.StatusOK, "pages/home.html", pageData{
		"title":        "Home • SkillSwap",
		"display_name": displayName,
		"initial":      profile.Initial(fullName, username, sess.User.Email),
		"avatar_url":   avatarURL,
		"username":     username,
		"nav_username": username,
	})
}
