package auth_test

import (
	"net/http"
	"testing"

	"eventhub/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	assert.NoError(t, err)
	return token
}

func TestExtractTokenFromRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)

	// Missing header
	_, err := auth.ExtractTokenFromRequest(req)
	assert.Error(t, err)

	// Wrong scheme
	req.Header.Set("Authorization", "Basic abc")
	_, err = auth.ExtractTokenFromRequest(req)
	assert.Error(t, err)

	// Bearer token
	req.Header.Set("Authorization", "Bearer sometoken")
	token, err := auth.ExtractTokenFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, "sometoken", token)
}

func TestExtractUserIDFromJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "auth|user-1"})

	sub, err := auth.ExtractUserIDFromJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "auth|user-1", sub)

	// No sub claim
	token = signedToken(t, jwt.MapClaims{"email": "a@example.com"})
	_, err = auth.ExtractUserIDFromJWT(token)
	assert.Error(t, err)

	// Garbage input
	_, err = auth.ExtractUserIDFromJWT("not-a-jwt")
	assert.Error(t, err)
}

func TestSubjectFromRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)

	// No context value, no header
	assert.Equal(t, "", auth.SubjectFromRequest(req))

	// Falls back to parsing the bearer token
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "auth|user-2"}))
	assert.Equal(t, "auth|user-2", auth.SubjectFromRequest(req))
}
