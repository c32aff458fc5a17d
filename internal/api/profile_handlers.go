package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/profile"
	"github.com/vytor/skillswap/internal/session"
)

// maxAvatarBytes bounds the multipart body of an editor submission.
const maxAvatarBytes = 5 << 20

func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request, draft models.ProfileDraft, message, errMsg string) {
	s.render(w, r, http.StatusOK, "pages/profile_edit.html", pageData{
		"title":        "Your profile • SkillSwap",
		"draft":        draft,
		"completeness": profile.Completeness(draft),
		"message":      message,
		"error":        errMsg,
	})
}

func (s *Server) handleProfileEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Redirect(w, r, signInURL(r.URL.RequestURI(), ""), http.StatusSeeOther)
		return
	}

	p, err := s.ProfileService.GetProfile(ctx, sess.User.ID)
	if err != nil {
		log.Warn("failed to load profile, starting from an empty draft: %v", err)
	}
	s.renderEditor(w, r, profile.DraftFrom(p), "", "")
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	sess := session.FromContext(ctx)
	if sess == nil {
		handleError(w, r, errors.NewUnauthorizedError("sign in to edit your profile"))
		return
	}

	draft, err := parseDraft(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.ProfileService.SaveDraft(ctx, sess.User.ID, draft)
	if err != nil {
		log.Warn("profile save failed: %v", err)
		s.renderEditor(w, r, draft, "", errors.Message(err))
		return
	}

	s.renderEditor(w, r, profile.DraftFrom(saved), "Profile saved.", "")
}

// handleAvatarUpload stores the submitted image and puts its public URL in
// the draft. The profile is only updated by a later save.
func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	sess := session.FromContext(ctx)
	if sess == nil {
		handleError(w, r, errors.NewUnauthorizedError("sign in to upload an avatar"))
		return
	}

	draft, err := parseDraft(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		if !stderrors.Is(err, http.ErrMissingFile) {
			log.Warn("failed to read avatar upload: %v", err)
		}
		s.renderEditor(w, r, draft, "", "Choose an image to upload.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	avatarURL, err := s.ProfileService.UploadAvatar(ctx, sess.User.ID, header.Filename, contentType, file)
	if err != nil {
		log.Warn("avatar upload failed: %v", err)
		s.renderEditor(w, r, draft, "", errors.Message(err))
		return
	}

	draft.AvatarURL = avatarURL
	s.renderEditor(w, r, draft, "Avatar uploaded.", "")
}

// parseDraft reads the editor fields from a urlencoded or multipart body.
func parseDraft(w http.ResponseWriter, r *http.Request) (models.ProfileDraft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+1<<20)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxAvatarBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return models.ProfileDraft{}, errors.NewBadRequestError("upload is too large")
		}
		return models.ProfileDraft{}, errors.NewBadRequestError("invalid form")
	}

	return models.ProfileDraft{
		Username:      r.PostFormValue("username"),
		FullName:      r.PostFormValue("full_name"),
		AvatarURL:     r.PostFormValue("avatar_url"),
		Bio:           r.PostFormValue("bio"),
		LanguagesText: r.PostFormValue("languages"),
		Timezone:      r.PostFormValue("timezone"),
		Location:      r.PostFormValue("location"),
		Website:       r.PostFormValue("website"),
	}, nil
}
