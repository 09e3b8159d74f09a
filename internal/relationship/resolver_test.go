package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/sfnav/internal/metadata"
	"github.com/dbsmedya/sfnav/internal/salesforce"
)

type fakeMetadata struct {
	describes map[string]*salesforce.ObjectDescribe
	children  map[string][]metadata.ChildRelationship
	childErr  error
}

func (f *fakeMetadata) Describe(_ context.Context, objectType string) (*salesforce.ObjectDescribe, error) {
	if d, ok := f.describes[objectType]; ok {
		return d, nil
	}
	return nil, errors.New("no such object: " + objectType)
}

func (f *fakeMetadata) ChildRelationships(_ context.Context, objectType string) ([]metadata.ChildRelationship, error) {
	if f.childErr != nil {
		return nil, f.childErr
	}
	return f.children[objectType], nil
}

func describeWithFields(fields ...salesforce.FieldDescribe) *salesforce.ObjectDescribe {
	return &salesforce.ObjectDescribe{Fields: fields}
}

func refField(name string, referenceTo ...string) salesforce.FieldDescribe {
	return salesforce.FieldDescribe{Name: name, Type: "reference", ReferenceTo: referenceTo}
}

func TestResolve_DeclaredRelationship(t *testing.T) {
	meta := &fakeMetadata{
		children: map[string][]metadata.ChildRelationship{
			"Account": {
				{Name: "Contacts", ChildObject: "Contact", Field: "AccountId"},
				{Name: "Invoices__r", ChildObject: "Invoice__c", Field: "Account__c"},
			},
		},
	}
	r := NewResolver(meta, nil)

	t.Run("exact name", func(t *testing.T) {
		target, err := r.Resolve(context.Background(), "Account", "Contacts")
		require.NoError(t, err)
		assert.Equal(t, "Contact", target.ChildObject)
		assert.Equal(t, "AccountId", target.JoinField)
	})

	t.Run("case insensitive", func(t *testing.T) {
		target, err := r.Resolve(context.Background(), "Account", "contacts")
		require.NoError(t, err)
		assert.Equal(t, "Contact", target.ChildObject)
	})

	t.Run("custom suffix retried as __r", func(t *testing.T) {
		target, err := r.Resolve(context.Background(), "Account", "Invoices__c")
		require.NoError(t, err)
		assert.Equal(t, "Invoice__c", target.ChildObject)
		assert.Equal(t, "Account__c", target.JoinField)
	})
}

func TestResolve_DeclaredOutranksConvention(t *testing.T) {
	// The declared relationship joins through a custom field; the static
	// table would have picked AccountId.
	meta := &fakeMetadata{
		children: map[string][]metadata.ChildRelationship{
			"Account": {
				{Name: "Contacts", ChildObject: "Contact", Field: "Custom_Account__c"},
			},
		},
		describes: map[string]*salesforce.ObjectDescribe{
			"Contact": describeWithFields(refField("AccountId", "Account")),
		},
	}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Account", "Contacts")
	require.NoError(t, err)
	assert.Equal(t, "Custom_Account__c", target.JoinField)
}

func TestResolve_PluralTable(t *testing.T) {
	meta := &fakeMetadata{
		describes: map[string]*salesforce.ObjectDescribe{
			"Contact": describeWithFields(refField("AccountId", "Account")),
		},
	}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Account", "Contacts")
	require.NoError(t, err)
	assert.Equal(t, "Contact", target.ChildObject)
	assert.Equal(t, "AccountId", target.JoinField)
}

func TestResolve_NameAsObjectType(t *testing.T) {
	meta := &fakeMetadata{
		describes: map[string]*salesforce.ObjectDescribe{
			"Contact": describeWithFields(refField("AccountId", "Account")),
		},
	}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Account", "Contact")
	require.NoError(t, err)
	assert.Equal(t, "Contact", target.ChildObject)
	assert.Equal(t, "AccountId", target.JoinField)
}

func TestResolve_ReferenceFieldScan(t *testing.T) {
	// No well-known parent field applies; the child's reference fields
	// carry the link.
	meta := &fakeMetadata{
		describes: map[string]*salesforce.ObjectDescribe{
			"Invoice": describeWithFields(
				refField("OwnerId", "User"),
				refField("Billing_Account__c", "Account"),
			),
		},
	}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Account", "Invoices")
	require.NoError(t, err)
	assert.Equal(t, "Billing_Account__c", target.JoinField)
}

func TestResolve_PolymorphicFields(t *testing.T) {
	taskDescribe := describeWithFields(
		refField("WhoId", "Contact", "Lead"),
		refField("WhatId", "Account", "Opportunity"),
	)
	meta := &fakeMetadata{
		describes: map[string]*salesforce.ObjectDescribe{"Task": taskDescribe},
	}
	r := NewResolver(meta, nil)

	t.Run("who side", func(t *testing.T) {
		target, err := r.Resolve(context.Background(), "Contact", "Tasks")
		require.NoError(t, err)
		assert.Equal(t, "WhoId", target.JoinField)
	})

	t.Run("what side", func(t *testing.T) {
		target, err := r.Resolve(context.Background(), "Opportunity", "Tasks")
		require.NoError(t, err)
		assert.Equal(t, "WhatId", target.JoinField)
	})
}

func TestResolve_DirectLookupBeatsPolymorphic(t *testing.T) {
	meta := &fakeMetadata{
		describes: map[string]*salesforce.ObjectDescribe{
			"Task": describeWithFields(
				refField("WhoId", "Contact", "Lead"),
				refField("Primary_Contact__c", "Contact"),
			),
		},
	}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Contact", "Tasks")
	require.NoError(t, err)
	assert.Equal(t, "Primary_Contact__c", target.JoinField)
}

func TestResolve_ConventionFallback(t *testing.T) {
	meta := &fakeMetadata{
		describes: map[string]*salesforce.ObjectDescribe{
			"Timesheet": describeWithFields(
				salesforce.FieldDescribe{Name: "ProjectId", Type: "string"},
			),
			"Project": describeWithFields(),
		},
	}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Project", "Timesheet")
	require.NoError(t, err)
	assert.Equal(t, "ProjectId", target.JoinField)
}

func TestResolve_MetadataUnreachable(t *testing.T) {
	// Nothing describable: the plural table plus the well-known parent
	// field still produce a target.
	meta := &fakeMetadata{childErr: errors.New("describe down")}
	r := NewResolver(meta, nil)

	target, err := r.Resolve(context.Background(), "Account", "Contacts")
	require.NoError(t, err)
	assert.Equal(t, "Contact", target.ChildObject)
	assert.Equal(t, "AccountId", target.JoinField)
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(&fakeMetadata{}, nil)

	_, err := r.Resolve(context.Background(), "Account", "Unobtainium")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Account", notFound.Parent)
	assert.Equal(t, "Unobtainium", notFound.Name)
}

func TestCommonNames(t *testing.T) {
	names := CommonNames()
	assert.Contains(t, names, "contacts")
	assert.Contains(t, names, "opportunities")
	assert.IsIncreasing(t, names)
}
