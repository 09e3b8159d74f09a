package soql

import (
	"fmt"
	"strings"
)

// accountListFields is the richer column set used for Account list views:
// the hierarchy links and the shipping address alongside the name.
var accountListFields = []string{
	"Id", "Name", "ParentId", "Ultimate_Parent__c",
	"ShippingStreet", "ShippingCity", "ShippingState", "ShippingPostalCode",
}

// SearchQueries is the bundle a search command executes: the SOSL full-text
// query, the SOQL exact-match fallback, and the advisory count query.
type SearchQueries struct {
	FullText      string
	Fallback      string
	Count         string
	Fields        []string
	FallbackField string // name field the fallback filters and orders by
}

// QuoteSearchTerm applies the SOSL quoting rule: an already-quoted term is
// used verbatim, a term containing whitespace is wrapped in double quotes
// for phrase matching, and a bare token is left untouched. Unquoted
// multi-word text would otherwise be treated as a malformed or overly broad
// expression by the search dialect.
func QuoteSearchTerm(raw string) string {
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		return raw
	}
	if strings.ContainsAny(raw, " \t") {
		return `"` + raw + `"`
	}
	return raw
}

// ListFields chooses the column set for list views of an object type:
// the explicit override when given, the rich Account set for Accounts, and
// Id plus the name field otherwise.
func ListFields(objectType string, nameField string, override []string) []string {
	if len(override) > 0 {
		return override
	}
	if objectType == "Account" {
		return accountListFields
	}
	return []string{"Id", nameField}
}

// BuildSearch constructs the three queries for a search command.
func BuildSearch(objectType, rawQuery string, limit int, nameField string, fields []string) (*SearchQueries, error) {
	if !IsValidIdentifier(objectType) {
		return nil, &InvalidIdentifierError{Name: objectType}
	}
	if !IsValidFieldPath(nameField) {
		return nil, &InvalidIdentifierError{Name: nameField}
	}
	for _, f := range fields {
		if !IsValidFieldPath(f) {
			return nil, &InvalidIdentifierError{Name: f}
		}
	}

	cols := ListFields(objectType, nameField, fields)
	fieldList := strings.Join(cols, ", ")
	term := QuoteSearchTerm(rawQuery)
	pattern := "'%" + EscapeLike(rawQuery) + "%'"

	q := &SearchQueries{
		FullText: fmt.Sprintf("FIND {%s} IN ALL FIELDS RETURNING %s(%s ORDER BY %s LIMIT %d)",
			term, objectType, fieldList, nameField, limit),
		Fallback: fmt.Sprintf("SELECT %s FROM %s WHERE %s LIKE %s ORDER BY %s LIMIT %d",
			fieldList, objectType, nameField, pattern, nameField, limit),
		Count: fmt.Sprintf("SELECT COUNT() FROM %s WHERE %s LIKE %s",
			objectType, nameField, pattern),
		Fields:        cols,
		FallbackField: nameField,
	}
	return q, nil
}

// BuildByID constructs a field-limited single-record query.
func BuildByID(objectType, recordID string, fields []string) (string, error) {
	if !IsValidIdentifier(objectType) {
		return "", &InvalidIdentifierError{Name: objectType}
	}
	for _, f := range fields {
		if !IsValidFieldPath(f) {
			return "", &InvalidIdentifierError{Name: f}
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE Id = %s",
		strings.Join(fields, ", "), objectType, QuoteLiteral(recordID)), nil
}

// BuildRelated constructs the query fetching child records joined to a
// parent by the given field.
func BuildRelated(childObject, joinField, parentID string, fields []string, limit int) (string, error) {
	if !IsValidIdentifier(childObject) {
		return "", &InvalidIdentifierError{Name: childObject}
	}
	if !IsValidIdentifier(joinField) {
		return "", &InvalidIdentifierError{Name: joinField}
	}
	for _, f := range fields {
		if !IsValidFieldPath(f) {
			return "", &InvalidIdentifierError{Name: f}
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s LIMIT %d",
		strings.Join(fields, ", "), childObject, joinField, QuoteLiteral(parentID), limit), nil
}

// BuildChildren constructs the ordered child-account listing and its count
// query for the hierarchy fan-out view.
func BuildChildren(objectType, parentField, parentID string, fields []string, limit int) (listQuery, countQuery string, err error) {
	if !IsValidIdentifier(objectType) {
		return "", "", &InvalidIdentifierError{Name: objectType}
	}
	if !IsValidIdentifier(parentField) {
		return "", "", &InvalidIdentifierError{Name: parentField}
	}
	for _, f := range fields {
		if !IsValidFieldPath(f) {
			return "", "", &InvalidIdentifierError{Name: f}
		}
	}
	id := QuoteLiteral(parentID)
	listQuery = fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY Name LIMIT %d",
		strings.Join(fields, ", "), objectType, parentField, id, limit)
	countQuery = fmt.Sprintf("SELECT COUNT() FROM %s WHERE %s = %s", objectType, parentField, id)
	return listQuery, countQuery, nil
}

// BuildHistory constructs the field-history query against the object's
// shadow history table, newest first, optionally filtered to one field.
func BuildHistory(objectType, recordID, fieldName string, limit int) (string, error) {
	if !IsValidIdentifier(objectType) {
		return "", &InvalidIdentifierError{Name: objectType}
	}
	if fieldName != "" && !IsValidIdentifier(fieldName) {
		return "", &InvalidIdentifierError{Name: fieldName}
	}

	historyObject := objectType + "History"
	parentField := objectType + "Id"

	where := fmt.Sprintf("%s = %s", parentField, QuoteLiteral(recordID))
	if fieldName != "" {
		where += fmt.Sprintf(" AND Field = %s", QuoteLiteral(fieldName))
	}

	return fmt.Sprintf(
		"SELECT Id, Field, OldValue, NewValue, CreatedDate, CreatedBy.Name FROM %s WHERE %s ORDER BY CreatedDate DESC LIMIT %d",
		historyObject, where, limit), nil
}
