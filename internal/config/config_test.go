package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Env:            "production",
		Port:           "8080",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		DBDriver:       "postgres",
		DBPassword:     "secure-password",
		DBSSLMode:      "require",
		LoginErrorMode: LoginErrorsUniform,
		RedisURL:       "redis://localhost:6379",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with empty SSL mode", "prod", "", true},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionSecrets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"default secret", func(c *Config) { c.JWTSecret = defaultJWTSecret }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"weak db password", func(c *Config) { c.DBPassword = "password" }},
		{"sqlite driver", func(c *Config) { c.DBDriver = "sqlite" }},
		{"quick login", func(c *Config) { c.DevQuickLogin = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_ValidateLoginErrorMode(t *testing.T) {
	c := validProductionConfig()
	c.LoginErrorMode = "loud"
	assert.Error(t, c.Validate())

	c.LoginErrorMode = LoginErrorsDistinct
	require.NoError(t, c.Validate())
	assert.True(t, c.DistinctLoginErrors())
}

func TestConfig_TokenTTL(t *testing.T) {
	c := &Config{}
	assert.Equal(t, 7*24*time.Hour, c.TokenTTL())

	c.JWTTTLHours = 2
	assert.Equal(t, 2*time.Hour, c.TokenTTL())
}

func TestConfig_QuickLoginOnlyInDevelopment(t *testing.T) {
	c := &Config{Env: "development", DevQuickLogin: true}
	assert.True(t, c.QuickLoginEnabled())

	c.Env = "staging"
	assert.False(t, c.QuickLoginEnabled())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("LOGIN_ERROR_MODE")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("LOGIN_ERROR_MODE", "Distinct")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, LoginErrorsDistinct, c.LoginErrorMode)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "postgres", c.DBDriver)
}
