package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
salesforce:
  username: ops@example.com
  password: secret
  security_token: token123
  domain: test
  api_version: "59.0"

query:
  search_limit: 50
  related_limit: 25

logging:
  level: debug
  format: text
  output: stdout
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", cfg.Salesforce.Username)
	assert.Equal(t, "secret", cfg.Salesforce.Password)
	assert.Equal(t, "token123", cfg.Salesforce.SecurityToken)
	assert.Equal(t, "test", cfg.Salesforce.Domain)
	assert.Equal(t, "59.0", cfg.Salesforce.APIVersion)
	assert.Equal(t, 50, cfg.Query.SearchLimit)
	assert.Equal(t, 25, cfg.Query.RelatedLimit)
	// Unset values keep defaults
	assert.Equal(t, 50, cfg.Query.ChildrenLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv(EnvUsername, "env@example.com")
	t.Setenv(EnvPassword, "envpass")
	t.Setenv(EnvSecurityToken, "envtoken")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", cfg.Salesforce.Username)
	assert.Equal(t, "envpass", cfg.Salesforce.Password)
	assert.Equal(t, "envtoken", cfg.Salesforce.SecurityToken)
	assert.Equal(t, "login", cfg.Salesforce.Domain)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SF_PASSWORD", "expanded-secret")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")
	configContent := `
salesforce:
  username: ops@example.com
  password: ${TEST_SF_PASSWORD}
  security_token: tok
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded-secret", cfg.Salesforce.Password)
}

func TestLoad_EnvDomainAppliesWhenFileSilent(t *testing.T) {
	t.Setenv(EnvDomain, "test")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")
	configContent := `
salesforce:
  username: ops@example.com
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Salesforce.Domain)
}

func TestLoad_MalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("salesforce: [not: valid"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}
