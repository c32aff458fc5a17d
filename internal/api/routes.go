package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vytor/skillswap/internal/telemetry"
)

const requestTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(telemetry.Middleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Get("/health", s.handleHealth)
		r.Head("/health", s.handleHealth)
		r.Get("/db-smoke", s.handleDBSmoke)
		r.Get("/boom", s.handleBoom)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/auth/sign-in", s.handleSignInPage)
		r.Post("/auth/sign-in", s.handleSignIn)
		r.Get("/auth/callback", s.handleCallback)
		r.Get("/auth/sign-out", s.handleSignOut)

		r.Get("/u/{username}", s.handlePublicProfile)

		r.Group(func(r chi.Router) {
			r.Use(s.gateMiddleware)
			r.Get("/", s.handleHome)
			r.Get("/account/profile", s.handleProfileEdit)
			r.Post("/account/profile", s.handleProfileSave)
			r.Post("/account/profile/avatar", s.handleAvatarUpload)
		})
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	return r
}
