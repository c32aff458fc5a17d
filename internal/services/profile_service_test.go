package services

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/testutil/mocks"
)

func newTestProfileService(repo *mocks.MockProfileRepository, blobs *mocks.MockBlobStore) *profileService {
	svc := NewProfileService(repo, blobs).(*profileService)
	svc.now = func() time.Time { return time.UnixMilli(1714566600123) }
	return svc
}

func TestSaveDraft_NormalizesAndUpserts(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := newTestProfileService(repo, &mocks.MockBlobStore{})
	userID := uuid.New()

	draft := models.ProfileDraft{
		Username:      "Ada Lovelace!",
		FullName:      "Ada Lovelace",
		LanguagesText: "English, Spanish, ",
		Website:       "https://x.com",
	}

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p models.Profile) bool {
		return p.ID == userID &&
			models.StringValue(p.Username) == "adalovelace" &&
			p.Bio == nil &&
			len(p.Languages) == 2 && p.Languages[1] == "Spanish" &&
			len(p.Links) == 1 && p.Links[0] == models.Link{Label: "website", URL: "https://x.com"}
	})).Return(&models.Profile{ID: userID, Username: models.NullableString("adalovelace")}, nil)

	saved, err := svc.SaveDraft(context.Background(), userID, draft)
	require.NoError(t, err)
	assert.Equal(t, "adalovelace", models.StringValue(saved.Username))
	repo.AssertExpectations(t)
}

func TestSaveDraft_SurfacesStoreMessage(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := newTestProfileService(repo, &mocks.MockBlobStore{})

	repo.On("Upsert", mock.Anything, mock.Anything).
		Return(nil, stderrors.New("UNIQUE constraint failed: profiles.username"))

	_, err := svc.SaveDraft(context.Background(), uuid.New(), models.ProfileDraft{Username: "taken"})
	require.Error(t, err)
	assert.Equal(t, "UNIQUE constraint failed: profiles.username", errors.Message(err))
}

func TestSaveDraft_KeepsUpstreamAppError(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := newTestProfileService(repo, &mocks.MockBlobStore{})
	upstream := errors.NewUpstreamError("new row violates row-level security policy", nil)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil, upstream)

	_, err := svc.SaveDraft(context.Background(), uuid.New(), models.ProfileDraft{})
	assert.Same(t, upstream, err)
}

func TestSaveDraft_RequiresUser(t *testing.T) {
	svc := newTestProfileService(&mocks.MockProfileRepository{}, &mocks.MockBlobStore{})

	_, err := svc.SaveDraft(context.Background(), uuid.Nil, models.ProfileDraft{})
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
}

func TestUploadAvatar(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	svc := newTestProfileService(&mocks.MockProfileRepository{}, blobs)
	userID := uuid.MustParse("6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718")
	path := "6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718/1714566600123.png"

	blobs.On("Upload", mock.Anything, path, "image/png", mock.Anything).Return(nil)
	blobs.On("PublicURL", path).Return("https://cdn.test/avatars/" + path)

	url, err := svc.UploadAvatar(context.Background(), userID, "me.png", "image/png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/avatars/"+path, url)
	blobs.AssertExpectations(t)
}

func TestUploadAvatar_Error(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	svc := newTestProfileService(&mocks.MockProfileRepository{}, blobs)

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.NewUpstreamError("The object exceeded the maximum allowed size", nil))

	url, err := svc.UploadAvatar(context.Background(), uuid.New(), "big.jpg", "image/jpeg", strings.NewReader("x"))
	assert.Empty(t, url)
	assert.Equal(t, "The object exceeded the maximum allowed size", errors.Message(err))
	blobs.AssertNotCalled(t, "PublicURL", mock.Anything)
}

func TestGetPublicProfile(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := newTestProfileService(repo, &mocks.MockBlobStore{})
	p := &models.Profile{ID: uuid.New(), Username: models.NullableString("ada")}

	repo.On("GetByUsername", mock.Anything, "ada").Return(p, nil)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
	repo.On("GetByUsername", mock.Anything, "broken").Return(nil, stderrors.New("timeout"))

	got, err := svc.GetPublicProfile(context.Background(), "ada")
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = svc.GetPublicProfile(context.Background(), "ghost")
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.GetPublicProfile(context.Background(), "broken")
	assert.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}

func TestGetPublicProfile_InvalidUsernameSkipsLookup(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := newTestProfileService(repo, &mocks.MockBlobStore{})

	for _, username := range []string{"", "Ada", "a b", strings.Repeat("a", 33)} {
		_, err := svc.GetPublicProfile(context.Background(), username)
		assert.True(t, errors.IsNotFound(err), username)
	}
	repo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestGetProfile(t *testing.T) {
	repo := &mocks.MockProfileRepository{}
	svc := newTestProfileService(repo, &mocks.MockBlobStore{})
	id := uuid.New()

	repo.On("Get", mock.Anything, id).Return(nil, nil)

	p, err := svc.GetProfile(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, p)
}
