package render

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/sfnav/internal/metadata"
	"github.com/dbsmedya/sfnav/internal/records"
	"github.com/dbsmedya/sfnav/internal/salesforce"
)

func TestMain(m *testing.M) {
	color.Disable()
	os.Exit(m.Run())
}

func newTestRenderer() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRenderer(&buf), &buf
}

func TestSearchResults(t *testing.T) {
	t.Run("numbered rows with footer", func(t *testing.T) {
		r, buf := newTestRenderer()
		recs := []records.Record{
			{"Id": "001A", "Name": "Axalta Coating Systems"},
			{"Id": "001B", "Name": "Axalta Refinish"},
		}
		r.SearchResults("Account", recs, []string{"Id", "Name"}, 1200)

		out := buf.String()
		assert.Contains(t, out, "1  001A")
		assert.Contains(t, out, "2  001B")
		assert.Contains(t, out, "Axalta Coating Systems")
		assert.Contains(t, out, "Showing 2 of 1200 Account records")
	})

	t.Run("no truncation footer when complete", func(t *testing.T) {
		r, buf := newTestRenderer()
		r.SearchResults("Account", []records.Record{{"Id": "001A"}}, []string{"Id"}, 1)
		assert.Contains(t, buf.String(), "1 Account record(s)")
		assert.NotContains(t, buf.String(), "Showing")
	})

	t.Run("empty result warns", func(t *testing.T) {
		r, buf := newTestRenderer()
		r.SearchResults("Account", nil, []string{"Id"}, 0)
		assert.Contains(t, buf.String(), "No Account records found")
	})
}

func TestRecordDetail(t *testing.T) {
	r, buf := newTestRenderer()
	rec := records.Record{
		"attributes": map[string]interface{}{"type": "Account"},
		"Id":         "001A",
		"Name":       "Axalta",
		"Amount":     json.Number("1200.50"),
		"Active":     true,
		"ParentId":   nil,
	}
	r.RecordDetail(rec)

	out := buf.String()
	assert.Contains(t, out, "Account: Axalta")
	assert.Contains(t, out, "Id")
	assert.Contains(t, out, "1200.50")
	assert.Contains(t, out, "true")
}

func TestRecordDetail_Hyperlink(t *testing.T) {
	r, buf := newTestRenderer()
	r.SetInstanceURL("https://example.my.salesforce.com/")
	r.RecordDetail(records.Record{"Id": "001A"})

	assert.Contains(t, buf.String(), "\x1b]8;;https://example.my.salesforce.com/001A\x1b\\")
}

func TestTable_WidthsAndTruncation(t *testing.T) {
	r, buf := newTestRenderer()
	long := "a very long description field value that keeps going well past the cell cap"
	r.Table([]string{"Name", "Description"}, [][]string{{"x", long}})

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, long)
}

func TestHistory(t *testing.T) {
	r, buf := newTestRenderer()
	recs := []records.Record{{
		"Field":       "Phone",
		"OldValue":    "555-0100",
		"NewValue":    "555-0199",
		"CreatedDate": "2026-08-01T10:00:00.000+0000",
		"CreatedBy":   map[string]interface{}{"Name": "Pat Admin"},
	}}
	r.History(recs)

	out := buf.String()
	assert.Contains(t, out, "Phone")
	assert.Contains(t, out, "555-0199")
	assert.Contains(t, out, "Pat Admin")
}

func TestRelationships(t *testing.T) {
	r, buf := newTestRenderer()
	r.Relationships("Account", []metadata.ChildRelationship{
		{Name: "Opportunities", ChildObject: "Opportunity", Field: "AccountId"},
		{Name: "Contacts", ChildObject: "Contact", Field: "AccountId"},
	})

	assert.Contains(t, buf.String(), "Contacts")
	assert.Contains(t, buf.String(), "Opportunities")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Contacts")),
		bytes.Index(buf.Bytes(), []byte("Opportunities")), "rows are sorted by name")
}

func TestObjectList(t *testing.T) {
	r, buf := newTestRenderer()
	r.ObjectList([]salesforce.SObjectSummary{
		{Name: "Account", Label: "Account"},
		{Name: "Invoice__c", Label: "Invoice", Custom: true},
	})

	out := buf.String()
	assert.Contains(t, out, "Invoice__c")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "2 object(s)")
}

func TestBreadcrumb(t *testing.T) {
	r, buf := newTestRenderer()
	r.Breadcrumb([]string{"Account:Axalta", "Contacts"})
	assert.Equal(t, "/ Account:Axalta / Contacts\n", buf.String())

	buf.Reset()
	r.Breadcrumb(nil)
	assert.Equal(t, "/\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"number keeps shape", json.Number("12"), "12"},
		{"bool", false, "false"},
		{"nested name", map[string]interface{}{"Name": "Pat"}, "Pat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.input))
		})
	}
}
