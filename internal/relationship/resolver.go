// Package relationship resolves relationship names typed at the prompt to
// the concrete child object type and join field to query.
package relationship

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/sfnav/internal/logger"
	"github.com/dbsmedya/sfnav/internal/metadata"
	"github.com/dbsmedya/sfnav/internal/salesforce"
)

// Metadata is the schema surface the resolver depends on.
type Metadata interface {
	Describe(ctx context.Context, objectType string) (*salesforce.ObjectDescribe, error)
	ChildRelationships(ctx context.Context, objectType string) ([]metadata.ChildRelationship, error)
}

// commonPlurals maps well-known plural relationship names to the child
// object type they query when the parent's metadata does not declare them.
var commonPlurals = map[string]string{
	"accounts":             "Account",
	"contacts":             "Contact",
	"opportunities":        "Opportunity",
	"opportunitylineitems": "OpportunityLineItem",
	"cases":                "Case",
	"tasks":                "Task",
	"events":               "Event",
	"leads":                "Lead",
	"contracts":            "Contract",
	"orders":               "Order",
	"assets":               "Asset",
	"invoices":             "Invoice",
	"quotes":               "SBQQ__Quote__c",
	"products":             "Product2",
}

// wellKnownParentFields maps a parent object type to the lookup field its
// standard children carry.
var wellKnownParentFields = map[string]string{
	"Account":     "AccountId",
	"Opportunity": "OpportunityId",
	"Contact":     "ContactId",
	"Case":        "CaseId",
	"Lead":        "LeadId",
	"Campaign":    "CampaignId",
}

// NotFoundError is returned when a name cannot be resolved to any
// relationship on the parent object.
type NotFoundError struct {
	Parent string
	Name   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no relationship %q on %s", e.Name, e.Parent)
}

// Target is a resolved relationship: the child object to query and the
// field on it referencing the parent record.
type Target struct {
	Name        string
	ChildObject string
	JoinField   string
}

// Resolver turns relationship names into query targets. Resolution prefers
// what the parent's metadata declares; the static tables and naming
// conventions only apply when the metadata is silent or unreachable.
type Resolver struct {
	meta   Metadata
	logger *logger.Logger
}

// NewResolver creates a relationship resolver over the given metadata source.
func NewResolver(meta Metadata, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{meta: meta, logger: log}
}

// Resolve maps a relationship name on a parent object type to a target.
// The chain, in priority order: the relationship declared in the parent's
// metadata (with a __c to __r retry for custom names), the well-known
// plural table, the name taken as an object type directly. The join field
// then comes from the well-known parent-field table, a scan of the child's
// reference fields, or the {Parent}Id convention.
func (r *Resolver) Resolve(ctx context.Context, parentType, name string) (*Target, error) {
	if t := r.declared(ctx, parentType, name); t != nil {
		return t, nil
	}
	if strings.HasSuffix(name, "__c") {
		alias := strings.TrimSuffix(name, "__c") + "__r"
		if t := r.declared(ctx, parentType, alias); t != nil {
			return t, nil
		}
	}

	childObject := commonPlurals[strings.ToLower(name)]
	if childObject == "" {
		// The name may itself be a child object type, as in "cd Contact".
		if _, err := r.meta.Describe(ctx, name); err == nil {
			childObject = name
		}
	}
	if childObject == "" {
		return nil, &NotFoundError{Parent: parentType, Name: name}
	}

	field, err := r.joinField(ctx, childObject, parentType)
	if err != nil {
		return nil, &NotFoundError{Parent: parentType, Name: name}
	}

	r.logger.Debugw("resolved relationship by convention",
		"parent", parentType, "name", name,
		"child", childObject, "field", field,
	)
	return &Target{Name: name, ChildObject: childObject, JoinField: field}, nil
}

// CommonNames returns the static plural relationship vocabulary, sorted.
// It seeds completion before any metadata has been fetched.
func CommonNames() []string {
	names := make([]string, 0, len(commonPlurals))
	for name := range commonPlurals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Resolver) declared(ctx context.Context, parentType, name string) *Target {
	rels, err := r.meta.ChildRelationships(ctx, parentType)
	if err != nil {
		r.logger.Debugw("child relationship lookup failed",
			"object", parentType, "error", err)
		return nil
	}
	for _, rel := range rels {
		if strings.EqualFold(rel.Name, name) {
			return &Target{Name: rel.Name, ChildObject: rel.ChildObject, JoinField: rel.Field}
		}
	}
	return nil
}

// joinField finds the field on the child object referencing the parent
// type. Direct lookups win over the polymorphic WhoId/WhatId pair.
func (r *Resolver) joinField(ctx context.Context, childObject, parentType string) (string, error) {
	describe, err := r.meta.Describe(ctx, childObject)
	if err != nil {
		// Without metadata the table and the convention are all that is left.
		if known := wellKnownParentFields[parentType]; known != "" {
			return known, nil
		}
		return parentType + "Id", nil
	}

	if known := wellKnownParentFields[parentType]; known != "" && describe.HasField(known) {
		return known, nil
	}

	var polymorphic string
	for _, f := range describe.Fields {
		if f.Type != "reference" || !referencesType(f.ReferenceTo, parentType) {
			continue
		}
		if f.Name == "WhoId" || f.Name == "WhatId" {
			if polymorphic == "" {
				polymorphic = f.Name
			}
			continue
		}
		return f.Name, nil
	}
	if polymorphic != "" {
		return polymorphic, nil
	}

	if convention := parentType + "Id"; describe.HasField(convention) {
		return convention, nil
	}
	return "", &NotFoundError{Parent: parentType, Name: childObject}
}

func referencesType(referenceTo []string, objectType string) bool {
	for _, ref := range referenceTo {
		if strings.EqualFold(ref, objectType) {
			return true
		}
	}
	return false
}
