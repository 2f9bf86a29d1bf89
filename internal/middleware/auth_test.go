package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, header string) (*Identity, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got *Identity
	err := mw(func(c echo.Context) error {
		got, _ = IdentityFrom(c)
		return nil
	})(c)
	return got, err
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func TestJWTAuthMiddleware(t *testing.T) {
	valid, err := SignToken(testSecret, Identity{ExternalID: "u1", Name: "alice", Username: "alice"}, time.Hour)
	require.NoError(t, err)
	wrongKey, err := SignToken("other", Identity{ExternalID: "u1"}, time.Hour)
	require.NoError(t, err)
	expired, err := SignToken(testSecret, Identity{ExternalID: "u1"}, -time.Hour)
	require.NoError(t, err)
	noSubject, err := SignToken(testSecret, Identity{Name: "anon"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + valid},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Token " + valid, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := runMiddleware(t, JWTAuthMiddleware(testSecret), tt.header)
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, id)
			assert.Equal(t, "u1", id.ExternalID)
			assert.Equal(t, "alice", id.Name)
		})
	}
}

type fakeVerifier struct {
	tokens map[string]*auth.Token
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid token")
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*auth.Token{
		"good": {UID: "firebase-uid-123", Claims: map[string]interface{}{"name": "Alice", "picture": "https://img/a.png"}},
	}}
	mw := FirebaseAuthMiddleware(verifier)

	id, err := runMiddleware(t, mw, "Bearer good")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "firebase-uid-123", id.ExternalID)
	assert.Equal(t, "Alice", id.Name)
	assert.Equal(t, "https://img/a.png", id.Picture)

	_, err = runMiddleware(t, mw, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestIdentity_ProvisionRequest(t *testing.T) {
	req := (&Identity{ExternalID: "user_2abcdefghij", Name: "Alice"}).ProvisionRequest()
	assert.Equal(t, "user_2ab", req.Username)
	assert.Equal(t, "Alice", req.Name)

	req = (&Identity{ExternalID: "u1", Username: "alice"}).ProvisionRequest()
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "u1", ShortID("u1"))
}
