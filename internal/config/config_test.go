package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 3000
  mode: release
database:
  host: db.local
  port: 5432
  user: app
  password: secret
  dbname: bigsteppa
  sslmode: disable
jwt:
  secret: file-secret
  expire_seconds: 600
log:
  dir: logs
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 600, cfg.JWT.ExpireSeconds)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: file-secret
`)

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRE_SECONDS", "120")
	t.Setenv("DB_HOST", "env-db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 120, cfg.JWT.ExpireSeconds)
	assert.Equal(t, "env-db", cfg.Database.Host)
}

func TestExpiryDefaultsWhenUnset(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTLSeconds, cfg.JWT.ExpireSeconds)
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 3000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "bigsteppa",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=db.local port=5432 user=app password=secret dbname=bigsteppa sslmode=disable",
		db.DSN())
}
