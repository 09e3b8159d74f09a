// Package salesforce provides the REST client for the Salesforce org:
// authentication, SOQL/SOSL execution, record CRUD, and object describes.
package salesforce

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/sfnav/internal/records"
)

// QueryResult is the response envelope of a structured (SOQL) query.
type QueryResult struct {
	TotalSize      int              `json:"totalSize"`
	Done           bool             `json:"done"`
	NextRecordsURL string           `json:"nextRecordsUrl"`
	Records        []records.Record `json:"records"`
}

// SearchResult is the response envelope of a full-text (SOSL) search.
// Records come back grouped by object type in document order.
type SearchResult struct {
	SearchRecords []records.Record `json:"searchRecords"`
}

// RecordsOfType filters the search results down to one object type, since
// SOSL may return rows for types other than the one the caller asked for.
func (s *SearchResult) RecordsOfType(objectType string) []records.Record {
	var out []records.Record
	for _, rec := range s.SearchRecords {
		if strings.EqualFold(rec.ObjectType(), objectType) {
			out = append(out, rec)
		}
	}
	return out
}

// PicklistValue is one entry of a picklist field's value set.
type PicklistValue struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FieldDescribe is the per-field metadata of an object describe.
type FieldDescribe struct {
	Name              string          `json:"name"`
	Label             string          `json:"label"`
	Type              string          `json:"type"`
	Length            int             `json:"length"`
	Precision         int             `json:"precision"`
	Scale             int             `json:"scale"`
	Nillable          bool            `json:"nillable"`
	DefaultedOnCreate bool            `json:"defaultedOnCreate"`
	Unique            bool            `json:"unique"`
	ExternalID        bool            `json:"externalId"`
	Calculated        bool            `json:"calculated"`
	Custom            bool            `json:"custom"`
	Updateable        bool            `json:"updateable"`
	PicklistValues    []PicklistValue `json:"picklistValues"`
	ReferenceTo       []string        `json:"referenceTo"`
	RelationshipName  string          `json:"relationshipName"`
	InlineHelpText    string          `json:"inlineHelpText"`
}

// ChildRelationshipDescribe is one declared child relationship of an object.
type ChildRelationshipDescribe struct {
	RelationshipName string `json:"relationshipName"`
	ChildSObject     string `json:"childSObject"`
	Field            string `json:"field"`
	CascadeDelete    bool   `json:"cascadeDelete"`
}

// RecordTypeInfo is one record type entry; only its presence is reported.
type RecordTypeInfo struct {
	Name string `json:"name"`
}

// ObjectDescribe is the full metadata of one object type.
type ObjectDescribe struct {
	Name               string                      `json:"name"`
	Label              string                      `json:"label"`
	LabelPlural        string                      `json:"labelPlural"`
	Custom             bool                        `json:"custom"`
	Queryable          bool                        `json:"queryable"`
	Searchable         bool                        `json:"searchable"`
	Createable         bool                        `json:"createable"`
	Updateable         bool                        `json:"updateable"`
	Deletable          bool                        `json:"deletable"`
	Undeletable        bool                        `json:"undeletable"`
	Triggerable        bool                        `json:"triggerable"`
	RecordTypeInfos    []RecordTypeInfo            `json:"recordTypeInfos"`
	Fields             []FieldDescribe             `json:"fields"`
	ChildRelationships []ChildRelationshipDescribe `json:"childRelationships"`
}

// Field returns the describe entry for the named field, or nil.
func (d *ObjectDescribe) Field(name string) *FieldDescribe {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// HasField reports whether the object declares the named field.
func (d *ObjectDescribe) HasField(name string) bool {
	return d.Field(name) != nil
}

// SObjectSummary is one entry of the global describe.
type SObjectSummary struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Custom        bool   `json:"custom"`
	CustomSetting bool   `json:"customSetting"`
	Queryable     bool   `json:"queryable"`
	Createable    bool   `json:"createable"`
}

// GlobalDescribe is the response of the global sobjects listing.
type GlobalDescribe struct {
	SObjects []SObjectSummary `json:"sobjects"`
}

// APIError is an error response from the Salesforce REST API.
type APIError struct {
	StatusCode int
	Code       string `json:"errorCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("salesforce API error (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("salesforce API error (%d): %s", e.StatusCode, e.Message)
}
