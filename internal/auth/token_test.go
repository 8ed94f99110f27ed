package auth_test

import (
	"net/http/httptest"
	"testing"

	"ms-dinein/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestExtractTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := auth.ExtractTokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractTokenFromRequestRejectsBadHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders", nil)
	_, err := auth.ExtractTokenFromRequest(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err = auth.ExtractTokenFromRequest(r)
	assert.Error(t, err)
}

func TestExtractUserIDFromJWT(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{"sub": "user-42"})

	sub, err := auth.ExtractUserIDFromJWT(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
}

func TestExtractUserIDFromJWTMissingSubject(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{"aud": "dinein"})

	_, err := auth.ExtractUserIDFromJWT(tokenString)
	assert.Error(t, err)
}
