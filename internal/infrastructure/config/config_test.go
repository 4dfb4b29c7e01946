package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"POS_APP_NAME":                os.Getenv("POS_APP_NAME"),
		"POS_APP_ENV":                 os.Getenv("POS_APP_ENV"),
		"POS_APP_PORT":                os.Getenv("POS_APP_PORT"),
		"POS_DATABASE_HOST":           os.Getenv("POS_DATABASE_HOST"),
		"POS_DATABASE_PORT":           os.Getenv("POS_DATABASE_PORT"),
		"POS_DATABASE_USER":           os.Getenv("POS_DATABASE_USER"),
		"POS_DATABASE_PASSWORD":       os.Getenv("POS_DATABASE_PASSWORD"),
		"POS_DATABASE_DBNAME":         os.Getenv("POS_DATABASE_DBNAME"),
		"POS_DATABASE_SSLMODE":        os.Getenv("POS_DATABASE_SSLMODE"),
		"POS_DATABASE_MAX_OPEN_CONNS": os.Getenv("POS_DATABASE_MAX_OPEN_CONNS"),
		"POS_DATABASE_MAX_IDLE_CONNS": os.Getenv("POS_DATABASE_MAX_IDLE_CONNS"),
		"POS_JWT_SECRET":              os.Getenv("POS_JWT_SECRET"),
		"POS_LOCK_CONFIRMATION_TTL":   os.Getenv("POS_LOCK_CONFIRMATION_TTL"),
		"POS_COOKIE_SECURE":           os.Getenv("POS_COOKIE_SECURE"),
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

		assert.Equal(t, "pos-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "pos", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 30*time.Second, cfg.Lock.ConfirmationTTL)
		assert.Equal(t, "pos.domain-events", cfg.Event.KafkaTopic)
		assert.Equal(t, 5, cfg.HTTP.AuthRateLimitRequests)
	})

	t.Run("loads values from environment variables with POS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_APP_NAME", "test-app")
		os.Setenv("POS_APP_ENV", "testing")
		os.Setenv("POS_APP_PORT", "9000")
		os.Setenv("POS_DATABASE_HOST", "testdb.local")
		os.Setenv("POS_DATABASE_PORT", "5433")
		os.Setenv("POS_DATABASE_USER", "testuser")
		os.Setenv("POS_DATABASE_PASSWORD", "testpass")
		os.Setenv("POS_DATABASE_DBNAME", "testdb")
		os.Setenv("POS_DATABASE_SSLMODE", "require")
		os.Setenv("POS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("POS_LOCK_CONFIRMATION_TTL", "45s")

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
		assert.Equal(t, 45*time.Second, cfg.Lock.ConfirmationTTL)
	})

	t.Run("rejects idle connections exceeding open connections", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	envVars := []string{
		"POS_APP_ENV",
		"POS_JWT_SECRET",
		"POS_DATABASE_PASSWORD",
		"POS_DATABASE_SSLMODE",
		"POS_COOKIE_SECURE",
	}
	originalEnv := make(map[string]string, len(envVars))
	for _, k := range envVars {
		originalEnv[k] = os.Getenv(k)
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

	setProductionBase := func() {
		os.Setenv("POS_APP_ENV", "production")
		os.Setenv("POS_JWT_SECRET", "this-is-a-production-secret-with-32-chars")
		os.Setenv("POS_DATABASE_PASSWORD", "prodpass")
		os.Setenv("POS_DATABASE_SSLMODE", "require")
		os.Setenv("POS_COOKIE_SECURE", "true")
	}

	t.Run("accepts a fully configured production setup", func(t *testing.T) {
		setProductionBase()

		_, err := Load()
		assert.NoError(t, err)
	})

	t.Run("requires jwt secret in production", func(t *testing.T) {
		setProductionBase()
		os.Setenv("POS_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required")
	})

	t.Run("rejects short jwt secret in production", func(t *testing.T) {
		setProductionBase()
		os.Setenv("POS_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database password in production", func(t *testing.T) {
		setProductionBase()
		os.Setenv("POS_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required")
	})

	t.Run("rejects disabled ssl in production", func(t *testing.T) {
		setProductionBase()
		os.Setenv("POS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("requires secure cookies in production", func(t *testing.T) {
		setProductionBase()
		os.Setenv("POS_COOKIE_SECURE", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cookie.secure")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "pos",
		Password: "p@ss/word",
		DBName:   "posdb",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.example.com:5432")
	assert.Contains(t, dsn, "posdb")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped.
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
