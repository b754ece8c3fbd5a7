package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitJWT("test-secret", time.Hour)
	userID := uuid.New()

	token, err := GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	InitJWT("test-secret", -time.Hour)
	token, err := GenerateToken(uuid.New())
	assert.NoError(t, err)

	InitJWT("test-secret", time.Hour)
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-one", time.Hour)
	token, err := GenerateToken(uuid.New())
	assert.NoError(t, err)

	InitJWT("secret-two", time.Hour)
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	InitJWT("test-secret", time.Hour)
	userID := uuid.New()
	token, err := GenerateToken(userID)
	assert.NoError(t, err)

	var gotUser uuid.UUID
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// Missing header
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bad token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token in header
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUser)

	// Valid token as query parameter
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
