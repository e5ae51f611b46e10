package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("user-1", "a@b.c", "admin", "tenant-a", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims["sub"])
	require.Equal(t, "tenant-a", claims["tenant"])

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	extracted, err := ExtractClaims(r)
	require.NoError(t, err)
	require.Equal(t, "user-1", extracted.UserID)
	require.Equal(t, "admin", extracted.Role)
	require.Equal(t, "tenant-a", extracted.TenantID)
}

func TestExtractClaimsFromCookie(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("user-2", "x@y.z", "customer", "tenant-b", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	extracted, err := ExtractClaims(r)
	require.NoError(t, err)
	require.Equal(t, "user-2", extracted.UserID)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("user-1", "a@b.c", "admin", "tenant-a", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	require.Error(t, err)
}

func TestExtractClaimsMissingToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := ExtractClaims(r)
	require.Error(t, err)
}
