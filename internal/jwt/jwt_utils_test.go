package jwtUtils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("admin@example.com", "ADMIN", 42, 7, []byte(testSecret), time.Now())
	require.NoError(t, err)

	parsed, claims, err := ValidateAccessToken(requestWithToken(token), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "admin@example.com", claims.Email)

	userID, err := GetUserIDFromToken(parsed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	sessionID, err := GetSessionIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sessionID)
}

func TestGetSessionIDFromClaims(t *testing.T) {
	for _, id := range []string{"", "abc", "0", "-3"} {
		claims := &ClaimsMessage{RegisteredClaims: jwt.RegisteredClaims{ID: id}}
		_, err := GetSessionIDFromClaims(claims)
		assert.ErrorIs(t, err, ErrJWTSessionIDNotFound, id)
	}
	_, err := GetSessionIDFromClaims(nil)
	assert.ErrorIs(t, err, ErrJWTSessionIDNotFound)
}

func TestValidateAccessTokenRejects(t *testing.T) {
	good, err := GenerateAccessToken("a@example.com", "USER", 1, 1, []byte(testSecret), time.Now())
	require.NoError(t, err)
	expired, err := GenerateAccessToken("a@example.com", "USER", 1, 1, []byte(testSecret), time.Now().Add(-2*AccessTokenDuration))
	require.NoError(t, err)

	noKid := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{AccessTokenAudienceName},
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noKidString, err := noKid.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		req    *http.Request
		secret string
	}{
		{"missing header", requestWithToken(""), testSecret},
		{"wrong secret", requestWithToken(good), "other"},
		{"expired", requestWithToken(expired), testSecret},
		{"missing kid", requestWithToken(noKidString), testSecret},
		{"garbage", requestWithToken("not.a.jwt"), testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidateAccessToken(tt.req, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestHasBearerToken(t *testing.T) {
	assert.False(t, HasBearerToken(requestWithToken("")))
	assert.True(t, HasBearerToken(requestWithToken("x")))
}
