package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/skillswap/internal/errors"
	"github.com/vytor/skillswap/internal/models"
	"github.com/vytor/skillswap/internal/session"
	"github.com/vytor/skillswap/internal/supabase"
)

const anonKey = "anon-key"

type recorded struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

func newServer(t *testing.T, status int, response string) (*supabase.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.header = r.Header.Clone()
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return supabase.New(srv.URL+"/", anonKey), rec
}

func TestSendMagicLink(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `{}`)

	err := client.SendMagicLink(context.Background(), "ada@example.com", "https://app.test/auth/callback", "challenge")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/auth/v1/otp", rec.path)
	assert.Equal(t, "https://app.test/auth/callback", rec.query.Get("redirect_to"))
	assert.Equal(t, anonKey, rec.header.Get("apikey"))
	assert.Equal(t, "Bearer "+anonKey, rec.header.Get("Authorization"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &body))
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, true, body["create_user"])
	assert.Equal(t, "challenge", body["code_challenge"])
	assert.Equal(t, "s256", body["code_challenge_method"])
}

func TestSendMagicLink_ErrorCarriesBackendMessage(t *testing.T) {
	client, _ := newServer(t, http.StatusTooManyRequests,
		`{"code":429,"error_code":"over_email_send_rate_limit","msg":"Email rate limit exceeded"}`)

	err := client.SendMagicLink(context.Background(), "ada@example.com", "", "c")
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
	assert.Equal(t, "Email rate limit exceeded", appErr.Message)

	var apiErr *supabase.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "over_email_send_rate_limit", apiErr.Code)
}

func TestExchangeCode(t *testing.T) {
	id := uuid.New()
	expiresAt := time.Now().Add(time.Hour).Unix()
	client, rec := newServer(t, http.StatusOK, `{
		"access_token": "access",
		"token_type": "bearer",
		"expires_in": 3600,
		"expires_at": `+jsonInt(expiresAt)+`,
		"refresh_token": "refresh",
		"user": {"id": "`+id.String()+`", "email": "ada@example.com"}
	}`)

	sess, err := client.ExchangeCode(context.Background(), "code-1", "verifier-1")
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/token", rec.path)
	assert.Equal(t, "pkce", rec.query.Get("grant_type"))
	assert.JSONEq(t, `{"auth_code":"code-1","code_verifier":"verifier-1"}`, string(rec.body))

	assert.Equal(t, "access", sess.AccessToken)
	assert.Equal(t, "refresh", sess.RefreshToken)
	assert.Equal(t, id, sess.User.ID)
	assert.Equal(t, expiresAt, sess.ExpiresAt.Unix())
}

func TestRefresh_UsesExpiresInWhenNoAbsoluteExpiry(t *testing.T) {
	client, rec := newServer(t, http.StatusOK,
		`{"access_token":"a","expires_in":60,"refresh_token":"r2","user":{"id":"`+uuid.NewString()+`"}}`)

	before := time.Now()
	sess, err := client.Refresh(context.Background(), "r1")
	require.NoError(t, err)

	assert.Equal(t, "refresh_token", rec.query.Get("grant_type"))
	assert.JSONEq(t, `{"refresh_token":"r1"}`, string(rec.body))
	assert.WithinDuration(t, before.Add(time.Minute), sess.ExpiresAt, 5*time.Second)
}

func TestRefresh_InvalidGrant(t *testing.T) {
	client, _ := newServer(t, http.StatusBadRequest,
		`{"error":"invalid_grant","error_description":"Invalid Refresh Token: Already Used"}`)

	_, err := client.Refresh(context.Background(), "r1")
	assert.Equal(t, "Invalid Refresh Token: Already Used", apperrors.Message(err))
}

func TestGetUserAndSignOutUseAccessToken(t *testing.T) {
	id := uuid.New()
	client, rec := newServer(t, http.StatusOK, `{"id":"`+id.String()+`","email":"ada@example.com"}`)

	user, err := client.GetUser(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "/auth/v1/user", rec.path)
	assert.Equal(t, "Bearer user-token", rec.header.Get("Authorization"))

	require.NoError(t, client.SignOut(context.Background(), "user-token"))
	assert.Equal(t, "/auth/v1/logout", rec.path)
	assert.Equal(t, http.MethodPost, rec.method)
}

func TestGetUser_InvalidID(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `{"id":"not-a-uuid"}`)

	_, err := client.GetUser(context.Background(), "t")
	assert.Error(t, err)
}

func TestSelectUsesSessionToken(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `[{"id":1,"name":"Go"}]`)
	ctx := session.WithSession(context.Background(), &models.Session{AccessToken: "user-token"})

	var rows []map[string]any
	err := client.Select(ctx, "skills", url.Values{"order": {"name"}}, &rows)
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/skills", rec.path)
	assert.Equal(t, "*", rec.query.Get("select"))
	assert.Equal(t, "name", rec.query.Get("order"))
	assert.Equal(t, "Bearer user-token", rec.header.Get("Authorization"))
	require.Len(t, rows, 1)
	assert.Equal(t, "Go", rows[0]["name"])
}

func TestSelectFallsBackToAnonKey(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `[]`)

	var rows []map[string]any
	require.NoError(t, client.Select(context.Background(), "profiles", url.Values{"username": {"eq.ada"}}, &rows))
	assert.Equal(t, "Bearer "+anonKey, rec.header.Get("Authorization"))
	assert.Equal(t, "eq.ada", rec.query.Get("username"))
}

func TestUpsert(t *testing.T) {
	client, rec := newServer(t, http.StatusCreated, `[{"id":"x","username":"ada"}]`)

	var out []map[string]any
	err := client.Upsert(context.Background(), "profiles", map[string]any{"id": "x", "username": "ada"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "resolution=merge-duplicates,return=representation", rec.header.Get("Prefer"))
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	require.Len(t, out, 1)
}

func TestUpsert_PostgRESTError(t *testing.T) {
	client, _ := newServer(t, http.StatusConflict,
		`{"code":"23505","details":null,"hint":null,"message":"duplicate key value violates unique constraint \"profiles_username_key\""}`)

	err := client.Upsert(context.Background(), "profiles", map[string]any{}, nil)

	var apiErr *supabase.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "23505", apiErr.Code)
	assert.Contains(t, apperrors.Message(err), "duplicate key value")
}

func TestUpload(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `{"Key":"avatars/u/1.png"}`)

	err := client.Upload(context.Background(), "u/1.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/avatars/u/1.png", rec.path)
	assert.Equal(t, "true", rec.header.Get("x-upsert"))
	assert.Equal(t, "image/png", rec.header.Get("Content-Type"))
	assert.Equal(t, "png-bytes", string(rec.body))
}

func TestPublicURL(t *testing.T) {
	client := supabase.New("https://abc.supabase.co/", anonKey, supabase.WithBucket("media"))
	assert.Equal(t,
		"https://abc.supabase.co/storage/v1/object/public/media/u1/my%20pic.jpg",
		client.PublicURL("u1/my pic.jpg"))
}

func TestTransportErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := supabase.New(srv.URL, anonKey)
	err := client.Select(context.Background(), "skills", nil, &[]map[string]any{})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
