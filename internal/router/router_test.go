package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/socialfeed/backend/internal/middleware"
	"github.com/anonto42/socialfeed/backend/internal/repositories/boltrepo"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/anonto42/socialfeed/backend/pkg/config"
	"github.com/anonto42/socialfeed/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "router-test-secret"
	testWebhookSecret = "hook-secret"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	return newAPIWithAuth(t, config.AuthModeJWT, nil)
}

func newAPIWithAuth(t *testing.T, mode string, verifier middleware.TokenVerifier) *apiClient {
	t.Helper()
	store, err := boltrepo.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validators.NewValidator()
	SetupRoutes(e, Dependencies{
		Services:      services.New(store, services.WithLogger(zerolog.Nop())),
		AuthMode:      mode,
		JWTSecret:     testSecret,
		Verifier:      verifier,
		WebhookSecret: testWebhookSecret,
	})
	return &apiClient{t: t, e: e}
}

func (a *apiClient) token(externalID, name string) string {
	a.t.Helper()
	tok, err := middleware.SignToken(testSecret, middleware.Identity{
		ExternalID: externalID,
		Name:       name,
		Username:   name,
	}, time.Hour)
	require.NoError(a.t, err)
	return tok
}

func (a *apiClient) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// stubVerifier accepts ID tokens of the form "id-<uid>".
type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	uid, ok := strings.CutPrefix(idToken, "id-")
	if !ok {
		return nil, errors.New("invalid ID token")
	}
	return &auth.Token{UID: uid, Claims: map[string]interface{}{"name": uid}}, nil
}

type idResponse struct {
	ID string `json:"id"`
}

type notificationResponse struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Read    bool   `json:"read"`
	Actor   *struct {
		Username string `json:"username"`
	} `json:"actor"`
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	rec := api.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newAPI(t)
	rec := api.do(http.MethodGet, "/api/v1/posts", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProvisionMe(t *testing.T) {
	api := newAPI(t)
	alice := api.token("u1", "alice")

	first := api.do(http.MethodPost, "/api/v1/users/me", alice, "")
	require.Equal(t, http.StatusCreated, first.Code)
	second := api.do(http.MethodPost, "/api/v1/users/me", alice, "")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, decode[idResponse](t, first).ID, decode[idResponse](t, second).ID)

	me := api.do(http.MethodGet, "/api/v1/users/me", alice, "")
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"external_id":"u1"`)
}

func TestLikeFlowOverHTTP(t *testing.T) {
	api := newAPI(t)
	alice, bob := api.token("u1", "alice"), api.token("u2", "bob")
	api.do(http.MethodPost, "/api/v1/users/me", alice, "")
	api.do(http.MethodPost, "/api/v1/users/me", bob, "")

	created := api.do(http.MethodPost, "/api/v1/posts", alice, `{"content":"hello"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	postID := decode[idResponse](t, created).ID

	like := api.do(http.MethodPost, "/api/v1/posts/"+postID+"/likes", bob, "")
	require.Equal(t, http.StatusOK, like.Code)
	assert.JSONEq(t, `{"liked":true}`, like.Body.String())

	status := api.do(http.MethodGet, "/api/v1/posts/"+postID+"/likes/status", bob, "")
	require.Equal(t, http.StatusOK, status.Code)
	assert.JSONEq(t, `{"post_id":"`+postID+`","liked":true,"likes_count":1}`, status.Body.String())

	list := api.do(http.MethodGet, "/api/v1/notifications", alice, "")
	require.Equal(t, http.StatusOK, list.Code)
	notifs := decode[[]notificationResponse](t, list)
	require.Len(t, notifs, 1)
	assert.Equal(t, "like", notifs[0].Type)
	assert.Equal(t, "bob liked your post", notifs[0].Content)
	require.NotNil(t, notifs[0].Actor)
	assert.Equal(t, "bob", notifs[0].Actor.Username)

	count := api.do(http.MethodGet, "/api/v1/notifications/unread-count", alice, "")
	assert.JSONEq(t, `{"count":1}`, count.Body.String())

	readAll := api.do(http.MethodPut, "/api/v1/notifications/read-all", alice, "")
	require.Equal(t, http.StatusOK, readAll.Code)
	assert.JSONEq(t, `{"updated":1}`, readAll.Body.String())

	count = api.do(http.MethodGet, "/api/v1/notifications/unread-count", alice, "")
	assert.JSONEq(t, `{"count":0}`, count.Body.String())

	unlike := api.do(http.MethodPost, "/api/v1/posts/"+postID+"/likes", bob, "")
	assert.JSONEq(t, `{"liked":false}`, unlike.Body.String())
}

func TestCommentsOverHTTP(t *testing.T) {
	api := newAPI(t)
	alice, bob := api.token("u1", "alice"), api.token("u2", "bob")
	api.do(http.MethodPost, "/api/v1/users/me", alice, "")
	api.do(http.MethodPost, "/api/v1/users/me", bob, "")

	postID := decode[idResponse](t, api.do(http.MethodPost, "/api/v1/posts", alice, `{"content":"hello"}`)).ID

	top := api.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", bob, `{"content":"nice"}`)
	require.Equal(t, http.StatusCreated, top.Code)
	commentID := decode[idResponse](t, top).ID

	reply := api.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", alice,
		`{"content":"thanks","parent_id":"`+commentID+`"}`)
	require.Equal(t, http.StatusCreated, reply.Code)

	replies := api.do(http.MethodGet, "/api/v1/comments/"+commentID+"/replies", bob, "")
	require.Equal(t, http.StatusOK, replies.Code)
	assert.Len(t, decode[[]idResponse](t, replies), 1)

	all := api.do(http.MethodGet, "/api/v1/posts/"+postID+"/comments", bob, "")
	require.Equal(t, http.StatusOK, all.Code)
	assert.Len(t, decode[[]idResponse](t, all), 2)

	bobNotifs := decode[[]notificationResponse](t, api.do(http.MethodGet, "/api/v1/notifications", bob, ""))
	require.Len(t, bobNotifs, 1)
	assert.Equal(t, "alice replied to your comment", bobNotifs[0].Content)

	missingParent := api.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", bob,
		`{"content":"x","parent_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, missingParent.Code)

	empty := api.do(http.MethodPost, "/api/v1/posts/"+postID+"/comments", bob, `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, empty.Code)
}

func TestFollowOverHTTP(t *testing.T) {
	api := newAPI(t)
	alice, bob := api.token("u1", "alice"), api.token("u2", "bob")
	api.do(http.MethodPost, "/api/v1/users/me", alice, "")
	api.do(http.MethodPost, "/api/v1/users/me", bob, "")

	follow := api.do(http.MethodPost, "/api/v1/users/u1/follow", bob, "")
	require.Equal(t, http.StatusOK, follow.Code)
	assert.JSONEq(t, `{"following":true}`, follow.Body.String())

	followers := api.do(http.MethodGet, "/api/v1/users/u1/followers", alice, "")
	require.Equal(t, http.StatusOK, followers.Code)
	assert.Contains(t, followers.Body.String(), `"external_id":"u2"`)

	self := api.do(http.MethodPost, "/api/v1/users/u2/follow", bob, "")
	assert.Equal(t, http.StatusBadRequest, self.Code)

	missing := api.do(http.MethodPost, "/api/v1/users/ghost/follow", bob, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestNotFoundAndValidation(t *testing.T) {
	api := newAPI(t)
	alice := api.token("u1", "alice")
	api.do(http.MethodPost, "/api/v1/users/me", alice, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"like missing post", http.MethodPost, "/api/v1/posts/missing/likes", "", http.StatusNotFound},
		{"like missing comment", http.MethodPost, "/api/v1/comments/missing/likes", "", http.StatusNotFound},
		{"get missing post", http.MethodGet, "/api/v1/posts/missing", "", http.StatusNotFound},
		{"comment on missing post", http.MethodPost, "/api/v1/posts/missing/comments", `{"content":"hi"}`, http.StatusNotFound},
		{"empty post", http.MethodPost, "/api/v1/posts", `{"content":""}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/posts", `{`, http.StatusBadRequest},
		{"missing user", http.MethodGet, "/api/v1/users/ghost", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, alice, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestUserWebhook(t *testing.T) {
	api := newAPI(t)
	body := `{"type":"user.created","data":{"id":"user_2abcdefghij","first_name":"Ada","last_name":"Lovelace"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer wrong")
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testWebhookSecret)
	rec = httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Ada Lovelace"`)
	assert.Contains(t, rec.Body.String(), `"username":"user_2ab"`)

	ignored := `{"type":"user.deleted","data":{"id":"user_2abcdefghij"}}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/users", strings.NewReader(ignored))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testWebhookSecret)
	rec = httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
}

func TestFeedShowsOwnAndFollowedPosts(t *testing.T) {
	api := newAPI(t)
	alice, bob, carol := api.token("u1", "alice"), api.token("u2", "bob"), api.token("u3", "carol")
	for _, tok := range []string{alice, bob, carol} {
		api.do(http.MethodPost, "/api/v1/users/me", tok, "")
	}

	api.do(http.MethodPost, "/api/v1/posts", alice, `{"content":"from alice"}`)
	api.do(http.MethodPost, "/api/v1/posts", bob, `{"content":"from bob"}`)
	api.do(http.MethodPost, "/api/v1/posts", carol, `{"content":"from carol"}`)
	api.do(http.MethodPost, "/api/v1/users/u2/follow", alice, "")

	type feedResponse struct {
		Data struct {
			Posts []struct {
				Content string `json:"content"`
			} `json:"posts"`
		} `json:"data"`
		Meta struct {
			TotalItems int `json:"totalItems"`
		} `json:"meta"`
	}

	rec := api.do(http.MethodGet, "/api/v1/feed?limit=1", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[feedResponse](t, rec)
	assert.Equal(t, 2, feed.Meta.TotalItems)
	require.Len(t, feed.Data.Posts, 1)
	assert.Equal(t, "from bob", feed.Data.Posts[0].Content)

	rec = api.do(http.MethodGet, "/api/v1/feed?page=2&limit=1", alice, "")
	feed = decode[feedResponse](t, rec)
	require.Len(t, feed.Data.Posts, 1)
	assert.Equal(t, "from alice", feed.Data.Posts[0].Content)

	for _, page := range []string{"3", "6148914691236517206", "99999999999999999999"} {
		rec = api.do(http.MethodGet, "/api/v1/feed?limit=3&page="+page, alice, "")
		require.Equal(t, http.StatusOK, rec.Code, page)
		feed = decode[feedResponse](t, rec)
		assert.Empty(t, feed.Data.Posts, page)
		assert.Equal(t, 2, feed.Meta.TotalItems, page)
	}
}

func TestFirebaseLoginExchange(t *testing.T) {
	api := newAPIWithAuth(t, config.AuthModeJWT, stubVerifier{})

	rec := api.do(http.MethodPost, "/api/v1/auth/firebase-login", "", `{"idToken":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/firebase-login", "", `{"idToken":"id-u1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[struct {
		Token string `json:"token"`
	}](t, rec)
	require.NotEmpty(t, login.Token)

	rec = api.do(http.MethodGet, "/api/v1/users/me", login.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFirebaseModeAcceptsOnlyIDTokens(t *testing.T) {
	api := newAPIWithAuth(t, config.AuthModeFirebase, stubVerifier{})

	rec := api.do(http.MethodPost, "/api/v1/auth/firebase-login", "", `{"idToken":"id-u1"}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/users/me", "id-u1", "")
	assert.Contains(t, []int{http.StatusOK, http.StatusCreated}, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/v1/users/me", "id-u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/me", api.token("u1", "u1"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
