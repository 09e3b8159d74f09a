// Package metadata resolves and memoizes per-object-type schema: fields,
// child relationships, the human-readable name field, and a compact default
// column set for querying unknown object types.
package metadata

import (
	"context"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/sfnav/internal/logger"
	"github.com/dbsmedya/sfnav/internal/salesforce"
)

// DefaultMaxQueryFields caps the default column set for list views.
const DefaultMaxQueryFields = 5

// preferredQueryFields is the priority order for the default column set.
var preferredQueryFields = []string{
	"Name", "Subject", "Title", "Status", "Type",
	"Priority", "Description", "ActivityDate", "DueDate",
	"Email", "Phone", "Company", "Amount", "StageName",
	"CloseDate", "CreatedDate",
}

// Describer is the remote describe operation the resolver depends on.
type Describer interface {
	DescribeObject(ctx context.Context, objectType string) (*salesforce.ObjectDescribe, error)
}

// ChildRelationship is a declared, queryable child relationship.
type ChildRelationship struct {
	Name          string
	ChildObject   string
	Field         string
	CascadeDelete bool
}

// Resolver fetches object metadata once per type per session and derives
// field choices from it. The memo is append-only and safe under the
// single-threaded session model; it is never invalidated short of a
// process restart.
type Resolver struct {
	client Describer
	logger *logger.Logger
	memo   map[string]*salesforce.ObjectDescribe
}

// NewResolver creates a metadata resolver backed by the given client.
func NewResolver(client Describer, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{
		client: client,
		logger: log,
		memo:   make(map[string]*salesforce.ObjectDescribe),
	}
}

// Describe returns the metadata for an object type, fetching it at most
// once per session.
func (r *Resolver) Describe(ctx context.Context, objectType string) (*salesforce.ObjectDescribe, error) {
	if describe, ok := r.memo[objectType]; ok {
		return describe, nil
	}

	describe, err := r.client.DescribeObject(ctx, objectType)
	if err != nil {
		return nil, fmt.Errorf("metadata fetch for %s failed: %w", objectType, err)
	}

	r.logger.Debugw("cached object describe",
		"object", objectType,
		"fields", len(describe.Fields),
		"child_relationships", len(describe.ChildRelationships),
	)
	r.memo[objectType] = describe
	return describe, nil
}

// NameField returns the field serving as the record's human-readable name:
// the field literally named "Name" when string-typed, else the first
// string-typed field other than Id, else Id.
func (r *Resolver) NameField(ctx context.Context, objectType string) (string, error) {
	describe, err := r.Describe(ctx, objectType)
	if err != nil {
		return "", err
	}

	for _, f := range describe.Fields {
		if f.Name == "Name" && f.Type == "string" {
			return "Name", nil
		}
	}
	for _, f := range describe.Fields {
		if f.Type == "string" && f.Name != "Id" {
			return f.Name, nil
		}
	}
	return "Id", nil
}

// DefaultQueryFields returns a compact, human-useful column set for an
// object type: Id always first, then preferred fields that exist in
// priority order, then any string/picklist/boolean field in metadata order
// until maxFields is reached.
func (r *Resolver) DefaultQueryFields(ctx context.Context, objectType string, maxFields int) ([]string, error) {
	if maxFields <= 0 {
		maxFields = DefaultMaxQueryFields
	}

	describe, err := r.Describe(ctx, objectType)
	if err != nil {
		return nil, err
	}

	// Ordered set: insertion order is the column order.
	fields := orderedmap.NewOrderedMap[string, struct{}]()
	fields.Set("Id", struct{}{})

	for _, pref := range preferredQueryFields {
		if fields.Len() >= maxFields {
			break
		}
		if describe.HasField(pref) {
			fields.Set(pref, struct{}{})
		}
	}

	if fields.Len() < maxFields {
		for _, f := range describe.Fields {
			if _, present := fields.Get(f.Name); present {
				continue
			}
			switch f.Type {
			case "string", "picklist", "boolean":
				fields.Set(f.Name, struct{}{})
			}
			if fields.Len() >= maxFields {
				break
			}
		}
	}

	return fields.Keys(), nil
}

// ChildRelationships returns the declared child relationships that carry a
// queryable relationship name.
func (r *Resolver) ChildRelationships(ctx context.Context, objectType string) ([]ChildRelationship, error) {
	describe, err := r.Describe(ctx, objectType)
	if err != nil {
		return nil, err
	}

	var rels []ChildRelationship
	for _, rel := range describe.ChildRelationships {
		if rel.RelationshipName == "" {
			continue
		}
		rels = append(rels, ChildRelationship{
			Name:          rel.RelationshipName,
			ChildObject:   rel.ChildSObject,
			Field:         rel.Field,
			CascadeDelete: rel.CascadeDelete,
		})
	}
	return rels, nil
}

// FieldNames returns all field names of an object type.
func (r *Resolver) FieldNames(ctx context.Context, objectType string) ([]string, error) {
	describe, err := r.Describe(ctx, objectType)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(describe.Fields))
	for _, f := range describe.Fields {
		names = append(names, f.Name)
	}
	return names, nil
}
