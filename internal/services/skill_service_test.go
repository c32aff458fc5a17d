package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/testutil/mocks"
)

func TestListSkills(t *testing.T) {
	repo := &mocks.MockSkillRepository{}
	repo.On("List", mock.Anything).Return([]models.Skill{{"id": int64(1), "name": "Go"}}, nil)

	skills, err := NewSkillService(repo).ListSkills(context.Background())
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}

func TestListSkills_Error(t *testing.T) {
	repo := &mocks.MockSkillRepository{}
	repo.On("List", mock.Anything).Return(nil, stderrors.New("relation \"skills\" does not exist"))

	_, err := NewSkillService(repo).ListSkills(context.Background())
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUpstream, appErr.Code)
}
