package services

import (
	"testing"
	"time"

	"pizzaShop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestManagerLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("topsecret"), 8)
	require.NoError(t, err)

	repo := newFakeSessionRepo()
	as := NewAuthService(repo, string(hash), time.Hour)

	t.Run("wrong password", func(t *testing.T) {
		_, err := as.Login("guess")
		assert.ErrorIs(t, err, models.ErrUnautorized)
	})

	t.Run("success grants manager access", func(t *testing.T) {
		sessionId, err := as.Login("topsecret")
		require.NoError(t, err)

		access, err := as.CheckAccess(sessionId)
		require.NoError(t, err)
		assert.True(t, access)
	})

	t.Run("plain session has no access", func(t *testing.T) {
		sessionId, err := repo.CreateSession()
		require.NoError(t, err)

		access, err := as.CheckAccess(sessionId)
		require.NoError(t, err)
		assert.False(t, access)
	})
}

func TestManagerLoginUnconfigured(t *testing.T) {
	as := NewAuthService(newFakeSessionRepo(), "", time.Hour)
	_, err := as.Login("anything")
	assert.ErrorIs(t, err, models.ErrUnautorized)
}

func TestCheckAccessSlidesSessionExpiry(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("topsecret"), 8)
	require.NoError(t, err)
	repo := newFakeSessionRepo()
	as := NewAuthService(repo, string(hash), time.Hour)

	sessionId, err := as.Login("topsecret")
	require.NoError(t, err)
	before := repo.refreshed

	access, err := as.CheckAccess(sessionId)
	require.NoError(t, err)
	require.True(t, access)
	assert.Greater(t, repo.refreshed, before)
}

func TestCheckAccessUnknownSession(t *testing.T) {
	repo := newFakeSessionRepo()
	as := NewAuthService(repo, "irrelevant", time.Hour)

	// the liveness check answers before any field is read
	repo.getErr = models.ErrServerError
	access, err := as.CheckAccess("never-seen")
	require.NoError(t, err)
	assert.False(t, access)
}

func TestManagerLogout(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("topsecret"), 8)
	repo := newFakeSessionRepo()
	as := NewAuthService(repo, string(hash), time.Hour)

	sessionId, err := as.Login("topsecret")
	require.NoError(t, err)
	require.NoError(t, as.Logout(sessionId))

	access, err := as.CheckAccess(sessionId)
	require.NoError(t, err)
	assert.False(t, access)
}
