package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/metrics"
	"github.com/vytor/skillswap/internal/session"
)

const (
	defaultAfterSignIn  = "/account/profile"
	defaultAfterSignOut = "/auth/sign-in"
)

func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.render(w, r, http.StatusOK, "pages/sign_in.html", pageData{
		"title": "Sign in • SkillSwap",
		"next":  localPath(q.Get("next"), ""),
		"error": q.Get("error"),
	})
}

// handleSignIn requests a magic link for the submitted email. The link
// lands on /auth/callback, carrying next when one was given.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid form"))
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	next := localPath(r.PostFormValue("next"), "")

	data := pageData{
		"title": "Sign in • SkillSwap",
		"email": email,
		"next":  next,
	}
	if email == "" {
		data["error"] = "Email is required."
		s.render(w, r, http.StatusOK, "pages/sign_in.html", data)
		return
	}

	client := session.ClientFromContext(ctx)
	if client == nil {
		client = s.newSessionClient(w, r)
	}

	if err := client.SignIn(ctx, email, s.callbackURL(next)); err != nil {
		log.Warn("magic link request failed: %v", err)
		data["error"] = errors.Message(err)
		s.render(w, r, http.StatusOK, "pages/sign_in.html", data)
		return
	}

	metrics.SessionEvents.WithLabelValues("magic_link_sent").Inc()
	log.Info("magic link sent")
	data["sent"] = true
	s.render(w, r, http.StatusOK, "pages/sign_in.html", data)
}

func (s *Server) callbackURL(next string) string {
	u := s.absoluteURL("/auth/callback")
	if next == "" {
		return u
	}
	return u + "?" + url.Values{"next": {next}}.Encode()
}

// handleCallback completes a magic-link sign-in. Without a code it only
// redirects, matching a link that was already consumed.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	q := r.URL.Query()
	next := localPath(q.Get("next"), defaultAfterSignIn)

	if code := q.Get("code"); code != "" {
		client := session.ClientFromContext(ctx)
		if client == nil {
			client = s.newSessionClient(w, r)
		}
		sess, err := client.ExchangeCode(ctx, code)
		if err != nil {
			log.Warn("code exchange failed: %v", err)
			http.Redirect(w, r, signInURL("", errors.Message(err)), http.StatusSeeOther)
			return
		}
		metrics.SessionEvents.WithLabelValues("signed_in").Inc()
		log.Info("signed in: user_id=%s", sess.User.ID)
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	client := session.ClientFromContext(ctx)
	if client == nil {
		client = s.newSessionClient(w, r)
	}
	if err := client.SignOut(ctx); err != nil {
		log.Warn("sign out with provider failed: %v", err)
	}
	metrics.SessionEvents.WithLabelValues("signed_out").Inc()

	http.Redirect(w, r, localPath(r.URL.Query().Get("next"), defaultAfterSignOut), http.StatusSeeOther)
}
