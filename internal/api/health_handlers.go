package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/telemetry"
)

// handleHealth is the uptime probe. It never touches the backend.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type dbSmokeResponse struct {
	OK     bool           `json:"ok"`
	Count  int            `json:"count"`
	Skills []models.Skill `json:"skills"`
}

// handleDBSmoke reads the skills catalogue to prove the record store is
// reachable with the public key.
func (s *Server) handleDBSmoke(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	skills, err := s.SkillService.ListSkills(r.Context())
	if err != nil {
		log.Error("db smoke failed: %v", err)
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": errors.Message(err),
		})
		return
	}
	if skills == nil {
		skills = []models.Skill{}
	}

	writeJSON(w, r, http.StatusOK, dbSmokeResponse{OK: true, Count: len(skills), Skills: skills})
}

// handleBoom reports a synthetic error to error tracking.
func (s *Server) handleBoom(w http.ResponseWriter, r *http.Request) {
	eventID := telemetry.Capture(r.Context(), stderrors.New("Boom test error for Sentry"))
	logger.FromContext(r.Context()).Warn("boom error captured: event_id=%s", eventID)

	writeJSON(w, r, http.StatusInternalServerError, map[string]any{
		"ok":      false,
		"message": "Error captured",
	})
}
