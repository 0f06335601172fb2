package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateTestToken creates a JWT with the claim layout AuthUserMiddleware expects.
func CreateTestToken(t *testing.T, userID string, extraClaims ExtraClaims, secret []byte) string {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", secret, nil)

	claims := map[string]interface{}{
		"sub":     userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"user_id": userID,
		"extra_claims": map[string]interface{}{
			"email": extraClaims.Email,
			"roles": extraClaims.Roles,
		},
	}

	_, tokenString, err := tokenAuth.Encode(claims)
	require.NoError(t, err)
	return tokenString
}

// authChain wires Verifier + AuthUserMiddleware around a handler that
// captures the resolved AuthUser.
func authChain(ja *jwtauth.JWTAuth, captured **AuthUser) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return Verifier(ja)(AuthUserMiddleware(final))
}

func TestAuthUserMiddleware(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	ja := jwtauth.New("HS256", secret, nil)
	userID := uuid.New().String()

	token := CreateTestToken(t, userID, ExtraClaims{
		Email: "ana@example.com",
		Roles: []string{RoleTeacher, RoleDirector},
	}, secret)

	var captured *AuthUser
	handler := authChain(ja, &captured)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, userID, captured.UserId)
	assert.Equal(t, userID, captured.UserUuid.String())
	assert.Equal(t, "ana@example.com", captured.ExtraClaims.Email)
	assert.True(t, captured.HasRole(RoleDirector))
	assert.False(t, captured.HasRole(RoleAdministrator))
}

func TestAuthUserMiddlewareFromCookie(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	ja := jwtauth.New("HS256", secret, nil)
	token := CreateTestToken(t, uuid.New().String(), ExtraClaims{Roles: []string{RoleStudent}}, secret)

	var captured *AuthUser
	handler := authChain(ja, &captured)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ACCESS_TOKEN_NAME, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.True(t, captured.HasRole(RoleStudent))
}

func TestAuthUserMiddlewareRejects(t *testing.T) {
	secret := []byte("test-jwt-secret-key")
	ja := jwtauth.New("HS256", secret, nil)

	var captured *AuthUser
	handler := authChain(ja, &captured)

	// Missing token
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with the wrong secret
	bad := CreateTestToken(t, uuid.New().String(), ExtraClaims{}, []byte("wrong-secret"))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token without a user_id claim
	tokenAuth := jwtauth.New("HS256", secret, nil)
	_, anon, err := tokenAuth.Encode(map[string]interface{}{
		"sub": "anonymous",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+anon)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
