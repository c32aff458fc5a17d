package services

import (
	"context"

	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/repository"
)

// SkillService exposes the read-only skills catalogue.
type SkillService interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
}

type skillService struct {
	skillRepo repository.SkillRepository
}

// NewSkillService creates a new SkillService
func NewSkillService(skillRepo repository.SkillRepository) SkillService {
	return &skillService{skillRepo: skillRepo}
}

func (s *skillService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing skills")

	skills, err := s.skillRepo.List(ctx)
	if err != nil {
		log.Error("failed to list skills: %v", err)
		return nil, storeError(err)
	}
	return skills, nil
}
