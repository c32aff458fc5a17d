package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/repository"
)

type skillRepository struct {
	db *sql.DB
}

// NewSkillRepository creates a new SkillRepository implementation
func NewSkillRepository(db *sql.DB) repository.SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) List(ctx context.Context) ([]models.Skill, error) {
	log := logger.FromContext(ctx).WithPrefix("skill_repo")

	query, args, err := sqlBuilder.Select("*").
		From("skills").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list skills: %v", err)
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	skills := []models.Skill{}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			log.Error("failed to scan skill row: %v", err)
			return nil, err
		}

		skill := make(models.Skill, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				skill[col] = string(b)
				continue
			}
			skill[col] = values[i]
		}
		skills = append(skills, skill)
	}

	log.Debug("found %d skills", len(skills))
	return skills, rows.Err()
}
