// Package config provides configuration structures and loading for sfnav.
package config

// Config represents the complete application configuration.
type Config struct {
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Query      QueryConfig      `yaml:"query" mapstructure:"query"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// SalesforceConfig represents credentials and endpoint settings for the org.
type SalesforceConfig struct {
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`
	SecurityToken string `yaml:"security_token" mapstructure:"security_token"`
	Domain        string `yaml:"domain" mapstructure:"domain"` // login, test, or a My Domain host
	APIVersion    string `yaml:"api_version" mapstructure:"api_version"`

	// JWT bearer flow settings. When client_id and private_key are both set
	// the JWT flow is used instead of the username-password flow.
	ClientID   string `yaml:"client_id" mapstructure:"client_id"`
	PrivateKey string `yaml:"private_key" mapstructure:"private_key"` // path to a PEM-encoded RSA key
}

// QueryConfig represents result limits applied to searches and listings.
type QueryConfig struct {
	SearchLimit   int `yaml:"search_limit" mapstructure:"search_limit"`
	MaxLimit      int `yaml:"max_limit" mapstructure:"max_limit"`
	RelatedLimit  int `yaml:"related_limit" mapstructure:"related_limit"`
	ChildrenLimit int `yaml:"children_limit" mapstructure:"children_limit"`
	HistoryLimit  int `yaml:"history_limit" mapstructure:"history_limit"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Salesforce: SalesforceConfig{
			APIVersion: "58.0",
		},
		Query: QueryConfig{
			SearchLimit:   200,
			MaxLimit:      2000,
			RelatedLimit:  10,
			ChildrenLimit: 50,
			HistoryLimit:  100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, searchLimit int) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if searchLimit > 0 {
		c.Query.SearchLimit = searchLimit
	}
}
