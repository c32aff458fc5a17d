package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/metrics"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/profile"
	"github.com/vytor/skillswap/internal/repository"
	"github.com/vytor/skillswap/internal/storage"
)

// ProfileService handles profile-related business logic
type ProfileService interface {
	// GetProfile returns the caller's profile, or nil when none was saved yet.
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// SaveDraft normalizes the draft and overwrites the caller's profile with it.
	SaveDraft(ctx context.Context, userID uuid.UUID, draft models.ProfileDraft) (*models.Profile, error)
	// UploadAvatar stores an image and returns its public URL. The profile
	// itself is not changed.
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
	// GetPublicProfile looks a profile up by username. A missing profile is a
	// NOT_FOUND error.
	GetPublicProfile(ctx context.Context, username string) (*models.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	blobs       storage.BlobStore
	now         func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, blobs storage.BlobStore) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		blobs:       blobs,
		now:         time.Now,
	}
}

// storeError keeps AppErrors from the hosted backend and surfaces the
// message of any other store failure.
func storeError(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.NewUpstreamError(err.Error(), err)
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile: user_id=%s", userID)

	p, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, storeError(err)
	}
	return p, nil
}

func (s *profileService) SaveDraft(ctx context.Context, userID uuid.UUID, draft models.ProfileDraft) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithField("user_id", userID.String())
	log.Debug("saving profile")

	if userID == uuid.Nil {
		return nil, errors.NewUnauthorizedError("sign in to edit your profile")
	}

	row := profile.Normalize(userID, draft)
	saved, err := s.profileRepo.Upsert(ctx, row)
	metrics.ProfileWrites.WithLabelValues("save", metrics.Outcome(err)).Inc()
	if err != nil {
		log.Warn("failed to save profile: %v", err)
		return nil, storeError(err)
	}

	log.Info("profile saved")
	return saved, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	log := logger.FromContext(ctx).WithField("user_id", userID.String())

	if userID == uuid.Nil {
		return "", errors.NewUnauthorizedError("sign in to upload an avatar")
	}

	path := storage.AvatarPath(userID, filename, s.now())
	log.Debug("uploading avatar: path=%s", path)

	err := s.blobs.Upload(ctx, path, contentType, body)
	metrics.ProfileWrites.WithLabelValues("avatar", metrics.Outcome(err)).Inc()
	if err != nil {
		log.Warn("failed to upload avatar: %v", err)
		return "", storeError(err)
	}

	return s.blobs.PublicURL(path), nil
}

func (s *profileService) GetPublicProfile(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting public profile: username=%s", username)

	// Stored usernames are always normalized, so anything else cannot match.
	if username == "" || profile.NormalizeUsername(username) != username {
		return nil, errors.NewNotFoundError("profile", username)
	}

	p, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		log.Error("failed to get public profile: %v", err)
		return nil, storeError(err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("profile", username)
	}
	return p, nil
}
