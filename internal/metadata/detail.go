package metadata

import (
	"context"

	"github.com/dbsmedya/sfnav/internal/salesforce"
)

// systemFieldNames are the audit fields categorized separately in the
// detailed describe view.
var systemFieldNames = map[string]bool{
	"Id":               true,
	"CreatedDate":      true,
	"CreatedById":      true,
	"LastModifiedDate": true,
	"LastModifiedById": true,
	"SystemModstamp":   true,
}

// ParentRelationship is a reference field with a declared relationship name.
type ParentRelationship struct {
	Field            string
	RelationshipName string
	ReferenceTo      []string
}

// Detail organizes an object describe for presentation: fields grouped by
// category plus parent and child relationships.
type Detail struct {
	Object *salesforce.ObjectDescribe

	StandardFields []salesforce.FieldDescribe
	CustomFields   []salesforce.FieldDescribe
	SystemFields   []salesforce.FieldDescribe
	FormulaFields  []salesforce.FieldDescribe
	LookupFields   []salesforce.FieldDescribe

	ParentRelationships []ParentRelationship
	ChildRelationships  []ChildRelationship
}

// TotalFields returns the overall field count.
func (d *Detail) TotalFields() int {
	return len(d.Object.Fields)
}

// DescribeDetailed returns the categorized view of an object's metadata.
// Categories are mutually exclusive, checked in order: formula, lookup,
// custom, system, standard.
func (r *Resolver) DescribeDetailed(ctx context.Context, objectType string) (*Detail, error) {
	describe, err := r.Describe(ctx, objectType)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Object: describe}

	for _, f := range describe.Fields {
		switch {
		case f.Calculated:
			detail.FormulaFields = append(detail.FormulaFields, f)
		case len(f.ReferenceTo) > 0:
			detail.LookupFields = append(detail.LookupFields, f)
		case f.Custom:
			detail.CustomFields = append(detail.CustomFields, f)
		case systemFieldNames[f.Name]:
			detail.SystemFields = append(detail.SystemFields, f)
		default:
			detail.StandardFields = append(detail.StandardFields, f)
		}

		if len(f.ReferenceTo) > 0 && f.RelationshipName != "" {
			detail.ParentRelationships = append(detail.ParentRelationships, ParentRelationship{
				Field:            f.Name,
				RelationshipName: f.RelationshipName,
				ReferenceTo:      f.ReferenceTo,
			})
		}
	}

	for _, rel := range describe.ChildRelationships {
		if rel.RelationshipName == "" {
			continue
		}
		detail.ChildRelationships = append(detail.ChildRelationships, ChildRelationship{
			Name:          rel.RelationshipName,
			ChildObject:   rel.ChildSObject,
			Field:         rel.Field,
			CascadeDelete: rel.CascadeDelete,
		})
	}

	return detail, nil
}
