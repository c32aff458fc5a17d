package postgrest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/repository/postgrest"
)

// fakeStore answers with canned JSON and records what it was asked.
type fakeStore struct {
	table    string
	query    url.Values
	row      any
	response string
	err      error
}

func (f *fakeStore) Select(_ context.Context, table string, query url.Values, out any) error {
	f.table, f.query = table, query
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func (f *fakeStore) Upsert(_ context.Context, table string, row any, out any) error {
	f.table, f.row = table, row
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func TestProfileGetByUsername(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{response: `[{"id":"` + id.String() + `","username":"ada","languages":null,"links":null}]`}

	p, err := postgrest.NewProfileRepository(store).GetByUsername(context.Background(), "ada")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "profiles", store.table)
	assert.Equal(t, "eq.ada", store.query.Get("username"))
	assert.Equal(t, "1", store.query.Get("limit"))
	assert.Equal(t, id, p.ID)
}

func TestProfileGet_NoRows(t *testing.T) {
	store := &fakeStore{response: `[]`}

	p, err := postgrest.NewProfileRepository(store).Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestProfileGet_Error(t *testing.T) {
	store := &fakeStore{err: errors.New("permission denied")}

	p, err := postgrest.NewProfileRepository(store).Get(context.Background(), uuid.New())
	assert.EqualError(t, err, "permission denied")
	assert.Nil(t, p)
}

func TestProfileUpsertSendsEmptyLists(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{response: `[{"id":"` + id.String() + `","languages":[],"links":[]}]`}

	stored, err := postgrest.NewProfileRepository(store).Upsert(context.Background(), models.Profile{ID: id})
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)

	sent, ok := store.row.(models.Profile)
	require.True(t, ok)
	assert.NotNil(t, sent.Languages)
	assert.NotNil(t, sent.Links)

	body, err := json.Marshal(sent)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"languages":[]`)
	assert.Contains(t, string(body), `"username":null`)
}

func TestProfileUpsert_NoRowReturnedUsesSubmittedProfile(t *testing.T) {
	store := &fakeStore{response: `[]`}
	username := "ada"
	submitted := models.Profile{ID: uuid.New(), Username: &username, Languages: []string{"English"}}

	stored, err := postgrest.NewProfileRepository(store).Upsert(context.Background(), submitted)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, submitted.ID, stored.ID)
	assert.Equal(t, "ada", models.StringValue(stored.Username))
	assert.Equal(t, []string{"English"}, stored.Languages)
	assert.Equal(t, []models.Link{}, stored.Links)
}

func TestSkillList(t *testing.T) {
	store := &fakeStore{response: `[{"id":1,"name":"Go","category":"Programming","level":"any"},{"id":"b3","name":"Guitar"}]`}

	skills, err := postgrest.NewSkillRepository(store).List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "skills", store.table)
	assert.Equal(t, "name", store.query.Get("order"))
	require.Len(t, skills, 2)
	assert.Equal(t, "Go", skills[0].Name())
	assert.Equal(t, "Programming", skills[0]["category"])
	assert.Equal(t, "any", skills[0]["level"])
	assert.Equal(t, "b3", skills[1]["id"])
}
