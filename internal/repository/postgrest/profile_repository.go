package postgrest

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/repository"
)

const profilesTable = "profiles"

type profileRepository struct {
	store RowStore
}

// NewProfileRepository creates a ProfileRepository backed by the profiles table.
func NewProfileRepository(store RowStore) repository.ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) selectOne(ctx context.Context, column, value string) (*models.Profile, error) {
	query := url.Values{
		column:  {eq(value)},
		"limit": {"1"},
	}
	var rows []models.Profile
	if err := r.store.Select(ctx, profilesTable, query, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%s", id)

	p, err := r.selectOne(ctx, "id", id.String())
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile by username: %s", username)

	p, err := r.selectOne(ctx, "username", username)
	if err != nil {
		log.Error("failed to get profile by username: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("upserting profile: id=%s", profile.ID)

	if profile.Languages == nil {
		profile.Languages = []string{}
	}
	if profile.Links == nil {
		profile.Links = []models.Link{}
	}

	var rows []models.Profile
	if err := r.store.Upsert(ctx, profilesTable, profile, &rows); err != nil {
		log.Error("failed to upsert profile: %v", err)
		return nil, err
	}
	if len(rows) == 0 {
		// Row-level security may hide the row from reads after the write
		// has committed.
		log.Debug("upsert returned no row, using the submitted profile")
		return &profile, nil
	}
	return &rows[0], nil
}
