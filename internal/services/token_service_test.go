package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneacademy/internal/services"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := services.NewTokenService("test-signing-key", 24*time.Hour)

	token, err := svc.Issue(7, 2)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 2, claims.RoleID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := services.NewTokenService("secret-a", time.Hour)
	verifier := services.NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(1, 1)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := services.NewTokenService("test-signing-key", -time.Minute)

	token, err := svc.Issue(1, 1)
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	svc := services.NewTokenService("test-signing-key", time.Hour)
	_, err := svc.Parse("not-a-jwt")
	assert.Error(t, err)
}
