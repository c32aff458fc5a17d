package postgrest

import (
	"context"
	"net/url"

	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/repository"
)

type skillRepository struct {
	store RowStore
}

// NewSkillRepository creates a SkillRepository backed by the skills table.
func NewSkillRepository(store RowStore) repository.SkillRepository {
	return &skillRepository{store: store}
}

func (r *skillRepository) List(ctx context.Context) ([]models.Skill, error) {
	log := logger.FromContext(ctx).WithPrefix("skill_repo")

	skills := []models.Skill{}
	if err := r.store.Select(ctx, "skills", url.Values{"order": {"name"}}, &skills); err != nil {
		log.Error("failed to list skills: %v", err)
		return nil, err
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	log.Debug("found %d skills", len(skills))
	return skills, nil
}
