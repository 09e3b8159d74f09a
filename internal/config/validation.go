package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSalesforce()...)
	errors = append(errors, c.validateQuery()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSalesforce() ValidationErrors {
	var errors ValidationErrors
	sf := &c.Salesforce

	jwtFlow := sf.ClientID != "" && sf.PrivateKey != ""

	if sf.Username == "" {
		errors = append(errors, ValidationError{
			Field:   "salesforce.username",
			Message: "username is required (or set " + EnvUsername + ")",
		})
	}
	if !jwtFlow {
		if sf.Password == "" {
			errors = append(errors, ValidationError{
				Field:   "salesforce.password",
				Message: "password is required for the username-password flow (or set " + EnvPassword + ")",
			})
		}
		if sf.SecurityToken == "" {
			errors = append(errors, ValidationError{
				Field:   "salesforce.security_token",
				Message: "security token is required for the username-password flow (or set " + EnvSecurityToken + ")",
			})
		}
	}
	if sf.Domain == "" {
		errors = append(errors, ValidationError{
			Field:   "salesforce.domain",
			Message: "domain is required (login, test, or a My Domain host)",
		})
	}
	if sf.APIVersion == "" {
		errors = append(errors, ValidationError{
			Field:   "salesforce.api_version",
			Message: "api_version is required",
		})
	}

	return errors
}

func (c *Config) validateQuery() ValidationErrors {
	var errors ValidationErrors
	q := &c.Query

	if q.SearchLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "query.search_limit",
			Message: "search_limit must be positive",
		})
	}
	if q.MaxLimit > 0 && q.SearchLimit > q.MaxLimit {
		errors = append(errors, ValidationError{
			Field:   "query.search_limit",
			Message: fmt.Sprintf("search_limit %d exceeds max_limit %d", q.SearchLimit, q.MaxLimit),
		})
	}
	if q.RelatedLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "query.related_limit",
			Message: "related_limit must be positive",
		})
	}
	if q.ChildrenLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "query.children_limit",
			Message: "children_limit must be positive",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn, or error)", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (must be json or text)", c.Logging.Format),
		})
	}

	return errors
}
