package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"STOREFRONT_APP_NAME":            os.Getenv("STOREFRONT_APP_NAME"),
		"STOREFRONT_APP_ENV":             os.Getenv("STOREFRONT_APP_ENV"),
		"STOREFRONT_APP_PORT":            os.Getenv("STOREFRONT_APP_PORT"),
		"STOREFRONT_DATABASE_HOST":       os.Getenv("STOREFRONT_DATABASE_HOST"),
		"STOREFRONT_DATABASE_PORT":       os.Getenv("STOREFRONT_DATABASE_PORT"),
		"STOREFRONT_DATABASE_USER":       os.Getenv("STOREFRONT_DATABASE_USER"),
		"STOREFRONT_DATABASE_PASSWORD":   os.Getenv("STOREFRONT_DATABASE_PASSWORD"),
		"STOREFRONT_DATABASE_DBNAME":     os.Getenv("STOREFRONT_DATABASE_DBNAME"),
		"STOREFRONT_DATABASE_SSLMODE":    os.Getenv("STOREFRONT_DATABASE_SSLMODE"),
		"STOREFRONT_TAX_MODE":            os.Getenv("STOREFRONT_TAX_MODE"),
		"STOREFRONT_TAX_API_KEY":         os.Getenv("STOREFRONT_TAX_API_KEY"),
		"STOREFRONT_TAX_TIMEOUT_SECONDS": os.Getenv("STOREFRONT_TAX_TIMEOUT_SECONDS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "development", cfg.Tax.Mode)
		assert.Equal(t, 10, cfg.Tax.TimeoutSeconds)
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_NAME", "test-app")
		os.Setenv("STOREFRONT_APP_PORT", "9000")
		os.Setenv("STOREFRONT_DATABASE_HOST", "testdb.local")
		os.Setenv("STOREFRONT_DATABASE_PORT", "5433")
		os.Setenv("STOREFRONT_TAX_MODE", "production")
		os.Setenv("STOREFRONT_TAX_API_KEY", "key-123")
		os.Setenv("STOREFRONT_TAX_TIMEOUT_SECONDS", "20")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "production", cfg.Tax.Mode)
		assert.Equal(t, "key-123", cfg.Tax.APIKey)
		assert.Equal(t, 20, cfg.Tax.TimeoutSeconds)
	})

	t.Run("rejects invalid tax mode", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_TAX_MODE", "staging")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax.mode")
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_DATABASE_SSLMODE", "require")
		os.Setenv("STOREFRONT_TAX_MODE", "production")
		os.Setenv("STOREFRONT_TAX_API_KEY", "key-123")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production requires tax api key", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_DATABASE_PASSWORD", "secret")
		os.Setenv("STOREFRONT_DATABASE_SSLMODE", "require")
		os.Setenv("STOREFRONT_TAX_MODE", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax.api_key")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "storefront",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in credentials must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
