package auth

import (
	"errors"
	"testing"
	"time"

	"spacehub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	return &model.User{
		ID:             "user-1",
		TenantID:       "tenant-1",
		Email:          "ada@example.com",
		Role:           "member",
		MembershipTier: "premium",
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", "spacehub", time.Hour)

	token, expiresAt, err := m.Issue(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, &model.Identity{
		UserID:         "user-1",
		TenantID:       "tenant-1",
		Email:          "ada@example.com",
		Role:           "member",
		MembershipTier: "premium",
	}, identity)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("0123456789abcdef0123", "spacehub", time.Hour)
	verifier := NewTokenManager("another-secret-entirely", "spacehub", time.Hour)

	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", "spacehub", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignIssuer(t *testing.T) {
	other := NewTokenManager("0123456789abcdef0123", "someone-else", time.Hour)
	m := NewTokenManager("0123456789abcdef0123", "spacehub", time.Hour)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", "spacehub", time.Hour)
	_, err := m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, VerifyPassword("correct horse battery", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}
