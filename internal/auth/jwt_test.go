package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "notekeep", time.Minute)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, domain.UserRoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, domain.UserRoleAdmin, p.Role)
}

func TestJWTManager_RejectsEmptyToken(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "notekeep", time.Minute)
	_, err := m.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	m1 := NewJWTManager(testSecret, "notekeep", time.Minute)
	m2 := NewJWTManager("another-secret-another-secret-12", "notekeep", time.Minute)

	token, err := m1.GenerateAccessToken(uuid.New(), domain.UserRoleUser)
	require.NoError(t, err)

	_, err = m2.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	m1 := NewJWTManager(testSecret, "someone-else", time.Minute)
	m2 := NewJWTManager(testSecret, "notekeep", time.Minute)

	token, err := m1.GenerateAccessToken(uuid.New(), domain.UserRoleUser)
	require.NoError(t, err)

	_, err = m2.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "notekeep", -time.Minute)

	token, err := m.GenerateAccessToken(uuid.New(), domain.UserRoleUser)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_UnknownRoleDowngradesToUser(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "notekeep", time.Minute)

	token, err := m.GenerateAccessToken(uuid.New(), domain.UserRole("SUPERUSER"))
	require.NoError(t, err)

	p, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleUser, p.Role)
}
