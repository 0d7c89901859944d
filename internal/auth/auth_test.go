package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zcrum/internal/auth"
	"zcrum/internal/models"
)

const testSecret = "test-secret"

func testIdentity() auth.Identity {
	return auth.Identity{
		UserID:  "user_123",
		Email:   "dev@example.com",
		Name:    "Dev One",
		OrgID:   "org_456",
		OrgRole: auth.RoleMember,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.SignToken(testSecret, testIdentity(), time.Hour)
	require.NoError(t, err)

	parsed, err := auth.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity(), parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := auth.SignToken(testSecret, testIdentity(), time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken("other-secret", token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := auth.SignToken(testSecret, testIdentity(), -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(testSecret, token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := auth.ParseToken(testSecret, "not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestParseTokenRequiresOrgScope(t *testing.T) {
	id := testIdentity()
	id.OrgID = ""
	token, err := auth.SignToken(testSecret, id, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken(testSecret, token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
