package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", 6*time.Hour)
	staffID := uuid.New()

	tokenStr, err := svc.Generate(staffID, "frontdesk", "staff")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, staffID, claims.StaffID)
	assert.Equal(t, "frontdesk", claims.Username)
	assert.Equal(t, "staff", claims.Role)

	expiresIn := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, (6 * time.Hour).Seconds(), expiresIn.Seconds(), 60)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", 6*time.Hour)
	verifier := NewService("secret-b", 6*time.Hour)

	tokenStr, err := issuer.Generate(uuid.New(), "frontdesk", "staff")
	require.NoError(t, err)

	_, err = verifier.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	tokenStr, err := svc.Generate(uuid.New(), "frontdesk", "staff")
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", 6*time.Hour)

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
