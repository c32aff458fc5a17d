package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/repository"
)

var profileColumns = []string{
	"id", "username", "full_name", "avatar_url", "bio",
	"languages", "timezone", "location", "links",
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p                               models.Profile
		id                              string
		username, fullName, avatar, bio sql.NullString
		timezone, location              sql.NullString
		languagesJSON, linksJSON        string
	)
	if err := row.Scan(&id, &username, &fullName, &avatar, &bio, &languagesJSON, &timezone, &location, &linksJSON); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("profile id %q: %w", id, err)
	}
	p.ID = parsed
	p.Username = nullString(username)
	p.FullName = nullString(fullName)
	p.AvatarURL = nullString(avatar)
	p.Bio = nullString(bio)
	p.Timezone = nullString(timezone)
	p.Location = nullString(location)

	if err := json.Unmarshal([]byte(languagesJSON), &p.Languages); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	if err := json.Unmarshal([]byte(linksJSON), &p.Links); err != nil {
		return nil, fmt.Errorf("decode links: %w", err)
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.Links == nil {
		p.Links = []models.Link{}
	}
	return &p, nil
}

func (r *profileRepository) getWhere(ctx context.Context, q queryRower, where squirrel.Eq) (*models.Profile, error) {
	query, args, err := sqlBuilder.Select(profileColumns...).From("profiles").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProfile(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%s", id)

	p, err := r.getWhere(ctx, r.db, squirrel.Eq{"id": id.String()})
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	if p == nil {
		log.Debug("profile not found: id=%s", id)
	}
	return p, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile by username: %s", username)

	p, err := r.getWhere(ctx, r.db, squirrel.Eq{"username": username})
	if err != nil {
		log.Error("failed to get profile by username: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("upserting profile: id=%s", profile.ID)

	languages := profile.Languages
	if languages == nil {
		languages = []string{}
	}
	links := profile.Links
	if links == nil {
		links = []models.Link{}
	}
	languagesJSON, err := jsonColumn(languages)
	if err != nil {
		return nil, err
	}
	linksJSON, err := jsonColumn(links)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlBuilder.Insert("profiles").
		Columns(profileColumns...).
		Values(
			profile.ID.String(), profile.Username, profile.FullName, profile.AvatarURL, profile.Bio,
			languagesJSON, profile.Timezone, profile.Location, linksJSON,
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
    username = excluded.username,
    full_name = excluded.full_name,
    avatar_url = excluded.avatar_url,
    bio = excluded.bio,
    languages = excluded.languages,
    timezone = excluded.timezone,
    location = excluded.location,
    links = excluded.links,
    updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return nil, err
	}

	var stored *models.Profile
	err = tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		p, err := r.getWhere(ctx, tx, squirrel.Eq{"id": profile.ID.String()})
		stored = p
		return err
	})
	if err != nil {
		log.Error("failed to upsert profile: %v", err)
		return nil, err
	}

	log.Debug("profile upserted: id=%s", profile.ID)
	return stored, nil
}
