package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/models"
)

// ProfileRepository handles profile data access. Lookups return nil, nil
// when no row matches.
type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	// Upsert inserts the profile or overwrites every column of the existing
	// row with the same id, and returns the stored row (or the submitted one
	// when the store does not echo it back).
	Upsert(ctx context.Context, profile models.Profile) (*models.Profile, error)
}

// SkillRepository lists the read-only skills catalogue.
type SkillRepository interface {
	List(ctx context.Context) ([]models.Skill, error)
}
