package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/session"
)

func TestManager_LoginPersists(t *testing.T) {
	dir := t.TempDir()

	m, err := session.New(dir)
	require.NoError(t, err)
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.User())

	user := &model.User{FullName: "Ana Silva", Email: "ana@example.com"}
	require.NoError(t, m.Login("tok-123", user))

	assert.True(t, m.Authenticated())
	assert.Equal(t, "tok-123", m.Token())
	assert.Equal(t, user, m.User())

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh manager picks the token back up; the profile does not
	// survive restarts.
	reloaded, err := session.New(dir)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", reloaded.Token())
	assert.Nil(t, reloaded.User())
}

func TestManager_CorruptStateIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	m, err := session.New(dir)
	require.NoError(t, err)
	assert.False(t, m.Authenticated())
}

func TestManager_Logout(t *testing.T) {
	dir := t.TempDir()

	m, err := session.New(dir)
	require.NoError(t, err)
	require.NoError(t, m.Login("tok", &model.User{Email: "ana@example.com"}))

	require.NoError(t, m.Logout())
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.User())

	_, err = os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))

	// Logging out twice is fine.
	require.NoError(t, m.Logout())
}

func TestManager_InvalidateNotifiesOncePerLogin(t *testing.T) {
	dir := t.TempDir()

	m, err := session.New(dir)
	require.NoError(t, err)
	require.NoError(t, m.Login("tok", nil))

	calls := 0
	m.OnInvalidate(func() { calls++ })

	m.Invalidate()
	m.Invalidate()
	m.Invalidate()

	assert.False(t, m.Authenticated())
	assert.Equal(t, 1, calls)

	_, err = os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))

	// A new login re-arms the notification.
	require.NoError(t, m.Login("tok-2", nil))
	m.Invalidate()
	assert.Equal(t, 2, calls)
}
