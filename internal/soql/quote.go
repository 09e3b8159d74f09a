// Package soql builds SOQL and SOSL query strings and runs the full-text
// search with its structured fallback.
package soql

import (
	"regexp"
	"strings"
)

// validIdentifierRegex matches valid SOQL identifier characters (object and
// field API names). Restricting to alphanumeric and underscore is a
// defense-in-depth measure against query injection, since identifiers are
// interpolated directly into query text.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// validFieldPathRegex additionally allows dotted relationship paths such as
// CreatedBy.Name.
var validFieldPathRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

// IsValidIdentifier checks if a name is a valid SOQL identifier.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// IsValidFieldPath checks if a name is a valid field name or dotted
// relationship path.
func IsValidFieldPath(name string) bool {
	return validFieldPathRegex.MatchString(name)
}

// QuoteLiteral quotes a string value for use in a SOQL filter predicate,
// escaping backslashes and single quotes.
func QuoteLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// EscapeLike escapes a value for embedding inside a LIKE pattern. The
// surrounding wildcards are the caller's business.
func EscapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return value
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
