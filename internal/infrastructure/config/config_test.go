package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knownEnvVars are neutralized per test so ambient shell configuration
// cannot leak into assertions. t.Setenv restores them afterwards.
var knownEnvVars = []string{
	"GROWOPS_APP_NAME",
	"GROWOPS_APP_ENV",
	"GROWOPS_APP_PORT",
	"GROWOPS_DATABASE_HOST",
	"GROWOPS_DATABASE_PORT",
	"GROWOPS_DATABASE_USER",
	"GROWOPS_DATABASE_PASSWORD",
	"GROWOPS_DATABASE_DBNAME",
	"GROWOPS_DATABASE_SSLMODE",
	"GROWOPS_DATABASE_MAX_OPEN_CONNS",
	"GROWOPS_DATABASE_MAX_IDLE_CONNS",
}

func resetEnv(t *testing.T) {
	t.Helper()
	for _, k := range knownEnvVars {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	resetEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "growops-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "growops", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
}

func TestLoadFromEnvironment(t *testing.T) {
	resetEnv(t)
	t.Setenv("GROWOPS_APP_NAME", "test-app")
	t.Setenv("GROWOPS_APP_ENV", "testing")
	t.Setenv("GROWOPS_APP_PORT", "9000")
	t.Setenv("GROWOPS_DATABASE_HOST", "testdb.local")
	t.Setenv("GROWOPS_DATABASE_PORT", "5433")
	t.Setenv("GROWOPS_DATABASE_USER", "testuser")
	t.Setenv("GROWOPS_DATABASE_PASSWORD", "testpass")
	t.Setenv("GROWOPS_DATABASE_DBNAME", "testdb")
	t.Setenv("GROWOPS_DATABASE_SSLMODE", "require")
	t.Setenv("GROWOPS_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("GROWOPS_DATABASE_MAX_IDLE_CONNS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "testdb.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "testpass", cfg.Database.Password)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadPoolValidation(t *testing.T) {
	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		resetEnv(t)
		t.Setenv("GROWOPS_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("GROWOPS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero open conns falls back to default", func(t *testing.T) {
		resetEnv(t)
		t.Setenv("GROWOPS_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("negative idle conns are rejected", func(t *testing.T) {
		resetEnv(t)
		t.Setenv("GROWOPS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoadDurationDefaults(t *testing.T) {
	resetEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5m0s", cfg.Cache.ProductTTL.String())
	assert.Equal(t, "30s", cfg.Cache.L1TTL.String())
	assert.Equal(t, "24h0m0s", cfg.Idempotency.TTL.String())
	assert.Equal(t, "1h0m0s", cfg.Expiration.SweepInterval.String())
}

func TestLoadProductionGuards(t *testing.T) {
	t.Run("password required", func(t *testing.T) {
		resetEnv(t)
		t.Setenv("GROWOPS_APP_ENV", "production")
		t.Setenv("GROWOPS_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("sslmode disable rejected", func(t *testing.T) {
		resetEnv(t)
		t.Setenv("GROWOPS_APP_ENV", "production")
		t.Setenv("GROWOPS_DATABASE_PASSWORD", "secure-password")
		t.Setenv("GROWOPS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("valid production config loads", func(t *testing.T) {
		resetEnv(t)
		t.Setenv("GROWOPS_APP_ENV", "production")
		t.Setenv("GROWOPS_DATABASE_PASSWORD", "secure-password")
		t.Setenv("GROWOPS_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "grower",
		Password: "pass@word#123",
		DBName:   "growops",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "grower")
	assert.Contains(t, dsn, "growops")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be URL-escaped
	assert.Contains(t, dsn, "pass%40word%23123")
	assert.NotContains(t, dsn, "pass@word#123")
}

func TestDatabaseDSNEmptyPassword(t *testing.T) {
	cfg := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "grower",
		DBName:  "growops",
		SSLMode: "disable",
	}
	assert.NotEmpty(t, cfg.DSN())
}
