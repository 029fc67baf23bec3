package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("ACCESS_LOGIN_PATH", "")
	t.Setenv("ACCESS_PUBLIC_PATHS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "/login", cfg.Access.LoginPath)
	assert.Equal(t, []string{"/login", "/auth", "/health"}, cfg.Access.PublicPaths)
	assert.Equal(t, 5*time.Second, cfg.Auth.CheckTimeout())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsRelativeLoginPath(t *testing.T) {
	t.Setenv("ACCESS_LOGIN_PATH", "login")

	_, err := Load()
	require.Error(t, err)
}

func TestPublicPathsAlwaysContainsLogin(t *testing.T) {
	paths := PublicPaths("/signin", " /health/ ,,static, /health,/signin")
	assert.Equal(t, []string{"/signin", "/health"}, paths)
}
