package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("ADVISOR_TEST_SET", "from-env")
	os.Unsetenv("ADVISOR_TEST_UNSET")

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "set variable",
			input:    "value: ${ADVISOR_TEST_SET}",
			expected: "value: from-env",
		},
		{
			name:     "unset variable without default becomes empty",
			input:    "value: ${ADVISOR_TEST_UNSET}",
			expected: "value: ",
		},
		{
			name:     "unset variable uses default",
			input:    "value: ${ADVISOR_TEST_UNSET:-fallback}",
			expected: "value: fallback",
		},
		{
			name:     "set variable wins over default",
			input:    "value: ${ADVISOR_TEST_SET:-fallback}",
			expected: "value: from-env",
		},
		{
			name:     "empty default",
			input:    "value: ${ADVISOR_TEST_UNSET:-}",
			expected: "value: ",
		},
		{
			name:     "plain text untouched",
			input:    "value: plain",
			expected: "value: plain",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, substituteEnvVars(tc.input))
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("ADVISOR_TEST_PORT", "9090")

	path := writeConfig(t, `
server:
  port: "${ADVISOR_TEST_PORT:-8080}"
  allowed_origins: "http://localhost:3000"
  environment: "development"
  log_level: "debug"

anthropic:
  api_key: "sk-ant-test"

cache:
  enabled: true
  ttl: "12h"

database:
  type: "sqlite"
  file_path: "advisor.db"

admin:
  jwt_secret: "secret"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.GetNormalizedLogLevel())
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.LLMConfigured())

	// Generation defaults are filled in for unset fields.
	assert.Equal(t, "claude-3-sonnet-20240229", cfg.Anthropic.Model)
	assert.Equal(t, int64(2000), cfg.Anthropic.MaxTokens)
	assert.InDelta(t, 0.1, cfg.Anthropic.Temperature, 1e-9)

	assert.Equal(t, models.SQLite, cfg.Database.Type)
	assert.Equal(t, "12h0m0s", cfg.Cache.AnswerTTL().String())

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFileRejectsBadPaths(t *testing.T) {
	_, err := LoadFromFile("../../etc/passwd.yaml")
	assert.Error(t, err)

	_, err = LoadFromFile("config.json")
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsMissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.MissingFields, "server.port")
	assert.Contains(t, vErr.MissingFields, "server.allowed_origins")
	assert.Contains(t, vErr.MissingFields, "admin.jwt_secret")
	assert.Contains(t, vErr.MissingFields, "database")

	cfg = &Config{
		Server: models.ServerConfig{
			Port:           "8080",
			AllowedOrigins: "*",
		},
		Admin:    models.AdminConfig{JWTSecret: "s"},
		Database: &models.DatabaseConfig{Type: models.SQLite, FilePath: "a.db"},
	}
	assert.NoError(t, cfg.Validate())
}
