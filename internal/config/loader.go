package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable names honored when no config file sets a value.
const (
	EnvUsername      = "SF_USERNAME"
	EnvPassword      = "SF_PASSWORD"
	EnvSecurityToken = "SF_SECURITY_TOKEN"
	EnvDomain        = "SF_DOMAIN"
	EnvClientID      = "SF_CLIENT_ID"
	EnvPrivateKey    = "SF_PRIVATE_KEY"
)

// Load reads configuration from the specified file path.
// A missing file is not an error: defaults plus SF_* environment variables
// are enough to run, which keeps the tool usable with only a .env-style
// shell environment. An unreadable or malformed file is still reported.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		err := v.ReadInConfig()
		switch {
		case err == nil:
			if err := v.Unmarshal(cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case os.IsNotExist(err):
			// fall through to env-only configuration
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	substituteEnvVars(cfg)
	applyEnvCredentials(cfg)

	// "login" routes to the production login endpoint; only applied after the
	// file and SF_DOMAIN have both had their chance.
	if cfg.Salesforce.Domain == "" {
		cfg.Salesforce.Domain = "login"
	}

	return cfg, nil
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	applyEnvCredentials(cfg)

	if cfg.Salesforce.Domain == "" {
		cfg.Salesforce.Domain = "login"
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Salesforce.Username = expandEnvVar(cfg.Salesforce.Username)
	cfg.Salesforce.Password = expandEnvVar(cfg.Salesforce.Password)
	cfg.Salesforce.SecurityToken = expandEnvVar(cfg.Salesforce.SecurityToken)
	cfg.Salesforce.Domain = expandEnvVar(cfg.Salesforce.Domain)
	cfg.Salesforce.ClientID = expandEnvVar(cfg.Salesforce.ClientID)
	cfg.Salesforce.PrivateKey = expandEnvVar(cfg.Salesforce.PrivateKey)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// applyEnvCredentials fills credential fields left empty by the config file
// from the SF_* environment variables.
func applyEnvCredentials(cfg *Config) {
	setIfEmpty(&cfg.Salesforce.Username, EnvUsername)
	setIfEmpty(&cfg.Salesforce.Password, EnvPassword)
	setIfEmpty(&cfg.Salesforce.SecurityToken, EnvSecurityToken)
	setIfEmpty(&cfg.Salesforce.Domain, EnvDomain)
	setIfEmpty(&cfg.Salesforce.ClientID, EnvClientID)
	setIfEmpty(&cfg.Salesforce.PrivateKey, EnvPrivateKey)
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if value, exists := os.LookupEnv(envKey); exists && value != "" {
		*dst = value
	}
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}
