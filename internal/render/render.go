// Package render formats records, tables, and status messages for the
// terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"

	"github.com/dbsmedya/sfnav/internal/metadata"
	"github.com/dbsmedya/sfnav/internal/records"
	"github.com/dbsmedya/sfnav/internal/salesforce"
)

// Renderer writes formatted output to a terminal-ish writer.
type Renderer struct {
	out         io.Writer
	instanceURL string
	hyperlinks  bool
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// SetInstanceURL enables record links in detail views. Terminals that
// support OSC 8 render them as clickable.
func (r *Renderer) SetInstanceURL(url string) {
	r.instanceURL = strings.TrimSuffix(url, "/")
	r.hyperlinks = r.instanceURL != ""
}

// Successf prints a green success line.
func (r *Renderer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.Green.Sprintf(format, args...))
}

// Errorf prints a red error line.
func (r *Renderer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.Red.Sprintf(format, args...))
}

// Warnf prints a yellow warning line.
func (r *Renderer) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.Yellow.Sprintf(format, args...))
}

// Clear clears the screen and homes the cursor.
func (r *Renderer) Clear() {
	fmt.Fprint(r.out, "\x1b[2J\x1b[H")
}

// Infof prints a plain informational line.
func (r *Renderer) Infof(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// SearchResults prints a numbered table of records with a showing-X-of-Y
// footer. The row numbers are what a later select command refers to.
func (r *Renderer) SearchResults(objectType string, recs []records.Record, fields []string, total int) {
	if len(recs) == 0 {
		r.Warnf("No %s records found", objectType)
		return
	}

	headers := append([]string{"#"}, fields...)
	rows := make([][]string, 0, len(recs))
	for i, rec := range recs {
		row := []string{fmt.Sprintf("%d", i+1)}
		for _, f := range fields {
			v, _ := rec.Get(f)
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}
	r.Table(headers, rows)

	if total > len(recs) {
		r.Infof("Showing %d of %d %s records", len(recs), total, objectType)
	} else {
		r.Infof("%d %s record(s)", len(recs), objectType)
	}
}

// RecordDetail prints every loaded field of one record, Id and Name first.
func (r *Renderer) RecordDetail(rec records.Record) {
	title := rec.DisplayName()
	if objectType := rec.ObjectType(); objectType != "" {
		title = objectType + ": " + title
	}
	fmt.Fprintln(r.out, color.Bold.Sprint(title))

	names := rec.FieldNames()
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range names {
		v, _ := rec.Get(name)
		value := formatValue(v)
		if name == "Id" && value != "" {
			value = r.recordLink(value)
		}
		fmt.Fprintf(r.out, "  %-*s  %s\n", width, name, value)
	}
}

// RelatedList prints the records of one relationship as a numbered table.
func (r *Renderer) RelatedList(name string, recs []records.Record, fields []string) {
	if len(recs) == 0 {
		r.Warnf("No %s records", name)
		return
	}
	fmt.Fprintln(r.out, color.Bold.Sprint(name))
	r.SearchResults(name, recs, fields, len(recs))
}

// Relationships lists the child relationships available on an object type.
func (r *Renderer) Relationships(objectType string, rels []metadata.ChildRelationship) {
	if len(rels) == 0 {
		r.Warnf("No child relationships on %s", objectType)
		return
	}

	rows := make([][]string, 0, len(rels))
	for _, rel := range rels {
		rows = append(rows, []string{rel.Name, rel.ChildObject, rel.Field})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	fmt.Fprintf(r.out, "Child relationships of %s:\n", objectType)
	r.Table([]string{"Relationship", "Child Object", "Field"}, rows)
}

// FieldList prints field names in columns.
func (r *Renderer) FieldList(objectType string, names []string) {
	fmt.Fprintf(r.out, "Fields of %s (%d):\n", objectType, len(names))
	r.Columns(names, 3)
}

// History prints field-history rows newest first.
func (r *Renderer) History(recs []records.Record) {
	if len(recs) == 0 {
		r.Warnf("No field history")
		return
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		field, _ := rec.Get("Field")
		oldValue, _ := rec.Get("OldValue")
		newValue, _ := rec.Get("NewValue")
		date, _ := rec.Get("CreatedDate")
		rows = append(rows, []string{
			formatValue(field),
			formatValue(oldValue),
			formatValue(newValue),
			formatValue(date),
			nestedName(rec, "CreatedBy"),
		})
	}
	r.Table([]string{"Field", "Old Value", "New Value", "Date", "Changed By"}, rows)
}

// ObjectList prints the org's object types.
func (r *Renderer) ObjectList(objects []salesforce.SObjectSummary) {
	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		custom := ""
		if obj.Custom {
			custom = "yes"
		}
		rows = append(rows, []string{obj.Name, obj.Label, custom})
	}
	r.Table([]string{"API Name", "Label", "Custom"}, rows)
	r.Infof("%d object(s)", len(objects))
}

// DescribeDetail prints the categorized field breakdown of an object type.
func (r *Renderer) DescribeDetail(d *metadata.Detail) {
	fmt.Fprintln(r.out, color.Bold.Sprintf("%s (%s)", d.Object.Name, d.Object.Label))
	r.Infof("%d fields: %d standard, %d custom, %d system, %d formula, %d lookup",
		d.TotalFields(),
		len(d.StandardFields), len(d.CustomFields), len(d.SystemFields),
		len(d.FormulaFields), len(d.LookupFields))

	r.fieldSection("Standard", d.StandardFields)
	r.fieldSection("Custom", d.CustomFields)
	r.fieldSection("Formula", d.FormulaFields)
	r.fieldSection("Lookup", d.LookupFields)
	r.fieldSection("System", d.SystemFields)

	if len(d.ChildRelationships) > 0 {
		r.Relationships(d.Object.Name, d.ChildRelationships)
	}
}

func (r *Renderer) fieldSection(title string, fields []salesforce.FieldDescribe) {
	if len(fields) == 0 {
		return
	}
	fmt.Fprintln(r.out, color.Bold.Sprint(title+" fields:"))
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Name, f.Label, fieldTypeLabel(f)})
	}
	r.Table([]string{"Name", "Label", "Type"}, rows)
}

// Breadcrumb prints the navigation path.
func (r *Renderer) Breadcrumb(path []string) {
	if len(path) == 0 {
		fmt.Fprintln(r.out, "/")
		return
	}
	fmt.Fprintln(r.out, "/ "+strings.Join(path, " / "))
}

// recordLink wraps a record ID in an OSC 8 hyperlink to its detail page.
func (r *Renderer) recordLink(id string) string {
	if !r.hyperlinks {
		return id
	}
	url := r.instanceURL + "/" + id
	return "\x1b]8;;" + url + "\x1b\\" + id + "\x1b]8;;\x1b\\"
}

func fieldTypeLabel(f salesforce.FieldDescribe) string {
	t := f.Type
	if t == "reference" && len(f.ReferenceTo) > 0 {
		t += "(" + strings.Join(f.ReferenceTo, ", ") + ")"
	}
	if f.Length > 0 && (t == "string" || t == "textarea") {
		t = fmt.Sprintf("%s(%d)", t, f.Length)
	}
	return t
}

// nestedName digs the Name out of a nested relationship value such as
// CreatedBy.
func nestedName(rec records.Record, key string) string {
	v, _ := rec.Get(key)
	nested, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	name, _ := nested["Name"].(string)
	return name
}

// formatValue renders a field value for display. Nested relationship
// values collapse to their Name.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]interface{}:
		if name, ok := val["Name"].(string); ok {
			return name
		}
		return fmt.Sprint(val)
	default:
		return fmt.Sprint(val)
	}
}
