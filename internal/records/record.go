// Package records contains the record representation and value helpers shared
// across multiple packages to avoid import cycles.
package records

import (
	"sort"
	"strings"
)

// Record represents a single Salesforce record as returned by the REST API:
// a field-name to value mapping plus the "attributes" envelope carrying the
// object type.
type Record map[string]interface{}

// attributesKey is the REST envelope key carrying object type and URL.
const attributesKey = "attributes"

// ID returns the record's Salesforce ID, or an empty string.
func (r Record) ID() string {
	if id, ok := r["Id"].(string); ok {
		return id
	}
	return ""
}

// ObjectType returns the object type from the attributes envelope, or an
// empty string when the envelope is missing.
func (r Record) ObjectType() string {
	attrs, ok := r[attributesKey].(map[string]interface{})
	if !ok {
		return ""
	}
	t, _ := attrs["type"].(string)
	return t
}

// DisplayName returns the most human-readable label available: the Name
// field, then the ID, then "Record".
func (r Record) DisplayName() string {
	if name, ok := r["Name"].(string); ok && name != "" {
		return name
	}
	if id := r.ID(); id != "" {
		return id
	}
	return "Record"
}

// Get returns the value for field, distinguishing a stored nil from a
// missing key.
func (r Record) Get(field string) (interface{}, bool) {
	v, ok := r[field]
	return v, ok
}

// ResolveField resolves name to the record's actual key, trying an exact
// match first and then a case-insensitive scan. The attributes envelope is
// never matched.
func (r Record) ResolveField(name string) (string, bool) {
	if name == attributesKey {
		return "", false
	}
	if _, ok := r[name]; ok {
		return name, true
	}
	for key := range r {
		if key != attributesKey && strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

// FieldNames returns the record's field names without the attributes
// envelope, with Id and Name first and the rest sorted alphabetically.
func (r Record) FieldNames() []string {
	var rest []string
	hasID, hasName := false, false
	for key := range r {
		switch key {
		case attributesKey:
		case "Id":
			hasID = true
		case "Name":
			hasName = true
		default:
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	names := make([]string, 0, len(rest)+2)
	if hasID {
		names = append(names, "Id")
	}
	if hasName {
		names = append(names, "Name")
	}
	return append(names, rest...)
}

// Clone returns a shallow copy. Navigation frames snapshot records so a
// later field update cannot rewrite history.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
