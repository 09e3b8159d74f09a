package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dbsmedya/sfnav/internal/mutate"
	"github.com/dbsmedya/sfnav/internal/records"
	"github.com/dbsmedya/sfnav/internal/soql"
)

func (s *Session) cmdSearch(ctx context.Context, args []string) error {
	fields, limit, rest, err := parseSearchFlags(args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return fmt.Errorf("usage: search <object> <text> [--fields a,b] [--limit n]")
	}

	objectType := rest[0]
	query := strings.Join(rest[1:], " ")
	if limit <= 0 {
		limit = s.cfg.SearchLimit
	}
	if limit > s.cfg.MaxLimit {
		return fmt.Errorf("limit %d exceeds the maximum of %d", limit, s.cfg.MaxLimit)
	}

	result, err := s.search.Search(ctx, objectType, query, limit, fields)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		s.out.Warnf("No %s records match %q", objectType, query)
		s.suggestCorrections(query)
		return nil
	}

	// A search starts a fresh navigation root.
	s.stack = nil
	s.view = viewResults
	s.currentObject = objectType
	s.currentRecords = result.Records
	s.currentRecord = nil
	s.relatedName = ""
	s.relatedRecords = nil
	s.path = nil

	s.out.SearchResults(objectType, result.Records, displayFields(result.Records, fields), result.Total)
	if result.UsedFallback {
		s.suggestCorrections(query)
	}
	return nil
}

func (s *Session) suggestCorrections(query string) {
	if matches := closeMatches(query, searchVocabulary, 3); len(matches) > 0 {
		s.out.Infof("Did you mean: %s", strings.Join(matches, ", "))
	}
}

func (s *Session) cmdGet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: get <object> <id>")
	}

	rec, err := s.client.GetRecord(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	// Like search, a direct fetch starts a fresh navigation root.
	s.stack = nil
	s.view = viewRecord
	s.currentObject = args[0]
	s.currentRecord = rec
	s.currentRecords = nil
	s.relatedName = ""
	s.relatedRecords = nil
	s.path = nil

	s.out.RecordDetail(rec)
	return nil
}

func (s *Session) cmdQuery(ctx context.Context, raw string) error {
	if raw == "" {
		return fmt.Errorf("usage: query <soql>")
	}

	result, err := s.client.Query(ctx, raw)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		s.out.Warnf("No rows")
		return nil
	}

	s.stack = nil
	s.view = viewResults
	objectType := result.Records[0].ObjectType()
	s.currentObject = objectType
	s.currentRecords = result.Records
	s.currentRecord = nil
	s.relatedName = ""
	s.relatedRecords = nil
	s.path = nil

	s.out.SearchResults(objectType, result.Records, displayFields(result.Records, nil), result.TotalSize)
	return nil
}

func (s *Session) cmdListObjects(ctx context.Context, args []string) error {
	showAll := len(args) > 0 && strings.EqualFold(args[0], "all")
	objects, err := s.client.ListObjects(ctx, showAll)
	if err != nil {
		return err
	}
	s.out.ObjectList(objects)
	return nil
}

func (s *Session) cmdSelect(ctx context.Context, n int) error {
	var rows []records.Record
	fromRelated := s.view == viewRelated
	switch s.view {
	case viewRelated:
		rows = s.relatedRecords
	case viewResults:
		rows = s.currentRecords
	}
	if len(rows) == 0 {
		return fmt.Errorf("nothing to select from, run a search first")
	}
	if n < 1 || n > len(rows) {
		return fmt.Errorf("selection %d out of range 1-%d", n, len(rows))
	}

	chosen := rows[n-1]
	objectType := chosen.ObjectType()
	if objectType == "" {
		objectType = s.currentObject
	}
	recordID := chosen.ID()
	if recordID == "" {
		return fmt.Errorf("row %d carries no record ID", n)
	}

	rec, err := s.client.GetRecord(ctx, objectType, recordID)
	if err != nil {
		return err
	}

	s.push()
	s.view = viewRecord
	s.currentObject = objectType
	s.currentRecord = rec
	s.currentRecords = nil
	s.relatedName = ""
	s.relatedRecords = nil
	if fromRelated {
		// Leaving the path-based related context: the record stands alone.
		s.path = nil
	}

	s.out.RecordDetail(rec)
	return nil
}

func (s *Session) cmdShow(ctx context.Context, args []string) error {
	if s.currentRecord == nil {
		return fmt.Errorf("no record selected")
	}

	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		rec, err := s.client.GetRecord(ctx, s.currentRecord.ObjectType(), s.currentRecord.ID())
		if err != nil {
			return err
		}
		s.currentRecord = rec
	}

	s.out.RecordDetail(s.currentRecord)
	return nil
}

func (s *Session) cmdFields(ctx context.Context, args []string) error {
	objectType := s.contextObject()
	if len(args) > 0 {
		objectType = args[0]
	}
	if objectType == "" {
		return fmt.Errorf("usage: fields <object>")
	}

	names, err := s.meta.FieldNames(ctx, objectType)
	if err != nil {
		return err
	}
	s.out.FieldList(objectType, names)
	return nil
}

func (s *Session) cmdRelationships(ctx context.Context) error {
	objectType := s.contextObject()
	if objectType == "" {
		return fmt.Errorf("no current object, run a search or get first")
	}

	rels, err := s.meta.ChildRelationships(ctx, objectType)
	if err != nil {
		return err
	}
	s.out.Relationships(objectType, rels)
	return nil
}

// cmdRelated shows a relationship's records without navigating into them.
func (s *Session) cmdRelated(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: related <name>")
	}
	target, rows, err := s.fetchRelated(ctx, args[0])
	if err != nil {
		return err
	}
	s.out.RelatedList(target.Name, rows, displayFields(rows, nil))
	return nil
}

func (s *Session) cmdCd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cd <name> or cd ..")
	}
	if args[0] == ".." {
		return s.cmdBack()
	}

	target, rows, err := s.fetchRelated(ctx, args[0])
	if err != nil {
		return err
	}

	s.push()
	if len(s.path) == 0 && s.currentRecord != nil {
		s.path = []string{s.currentRecord.ObjectType() + ":" + s.currentRecord.DisplayName()}
	}
	s.view = viewRelated
	s.currentObject = target.ChildObject
	s.relatedName = target.Name
	s.relatedRecords = rows
	s.currentRecords = nil
	s.path = append(s.path, target.Name)

	s.out.RelatedList(target.Name, rows, displayFields(rows, nil))
	return nil
}

func (s *Session) cmdLs(ctx context.Context, pipe *sortSpec) error {
	switch s.view {
	case viewRelated:
		rows, err := s.applySort(s.relatedRecords, pipe)
		if err != nil {
			return err
		}
		s.relatedRecords = rows
		s.out.RelatedList(s.relatedName, rows, displayFields(rows, nil))
	case viewRecord:
		// A single record lists like a directory: its child relationships
		// are the places cd can go.
		if pipe != nil {
			return fmt.Errorf("sort applies to lists, not a single record")
		}
		rels, err := s.meta.ChildRelationships(ctx, s.currentRecord.ObjectType())
		if err != nil {
			return err
		}
		s.out.Relationships(s.currentRecord.ObjectType(), rels)
	case viewResults:
		rows, err := s.applySort(s.currentRecords, pipe)
		if err != nil {
			return err
		}
		s.currentRecords = rows
		s.out.SearchResults(s.currentObject, rows, displayFields(rows, nil), len(rows))
	default:
		return fmt.Errorf("nothing to list, run a search first")
	}
	return nil
}

func (s *Session) cmdBack() error {
	if !s.pop() {
		// Empty stack: backing out of the root clears the session.
		s.view = viewEmpty
		s.currentObject = ""
		s.currentRecords = nil
		s.currentRecord = nil
		s.relatedName = ""
		s.relatedRecords = nil
		s.path = nil
		s.out.Infof("Back at the start")
		return nil
	}
	s.out.Breadcrumb(s.path)
	return nil
}

func (s *Session) cmdUpdate(ctx context.Context, args []string) error {
	if s.currentRecord == nil {
		return fmt.Errorf("no record selected")
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: update <field> <value>")
	}

	update, err := mutate.Prepare(s.currentRecord, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Update %s.%s from %v to %v on %s?",
		update.ObjectType, update.Field, update.OldValue, update.NewValue, update.RecordID)
	ok, err := s.confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		s.out.Warnf("Update cancelled")
		return nil
	}

	if err := mutate.Commit(ctx, s.client, s.logger, update, s.currentRecord); err != nil {
		return err
	}
	s.out.Successf("Updated %s.%s", update.ObjectType, update.Field)
	return nil
}

func (s *Session) cmdHistory(ctx context.Context, args []string) error {
	if s.currentRecord == nil {
		return fmt.Errorf("no record selected")
	}

	limit := s.cfg.HistoryLimit
	var field string
	for i := 0; i < len(args); i++ {
		if args[i] == "--limit" {
			if i+1 >= len(args) {
				return fmt.Errorf("--limit needs a number")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return fmt.Errorf("--limit needs a positive number")
			}
			limit = n
			i++
			continue
		}
		if field != "" {
			return fmt.Errorf("usage: history [field] [--limit n]")
		}
		field = args[i]
	}

	query, err := soql.BuildHistory(s.currentRecord.ObjectType(), s.currentRecord.ID(), field, limit)
	if err != nil {
		return err
	}
	result, err := s.client.Query(ctx, query)
	if err != nil {
		return err
	}
	s.out.History(result.Records)
	return nil
}

// cmdParent jumps to the account referenced by the given hierarchy field.
// With field arguments it runs a column-limited query; without, it fetches
// the full parent record so updates and show see every field.
func (s *Session) cmdParent(ctx context.Context, field string, args []string) error {
	if s.currentRecord == nil {
		return fmt.Errorf("no record selected")
	}
	if s.currentRecord.ObjectType() != "Account" {
		return fmt.Errorf("%s only applies to Account records", strings.ToLower(field))
	}

	parentID, _ := s.currentRecord.Get(field)
	id, ok := parentID.(string)
	if !ok || id == "" {
		return fmt.Errorf("account has no %s", field)
	}

	var rec records.Record
	if len(args) > 0 {
		query, err := soql.BuildByID("Account", id, withIDField(args))
		if err != nil {
			return err
		}
		result, err := s.client.Query(ctx, query)
		if err != nil {
			return err
		}
		if len(result.Records) == 0 {
			return fmt.Errorf("parent account %s not found", id)
		}
		rec = result.Records[0]
	} else {
		var err error
		rec, err = s.client.GetRecord(ctx, "Account", id)
		if err != nil {
			return err
		}
	}

	s.push()
	s.view = viewRecord
	s.currentRecord = rec
	s.currentRecords = nil
	s.relatedName = ""
	s.relatedRecords = nil
	s.path = append(s.path, rec.DisplayName())

	s.out.RecordDetail(rec)
	return nil
}

func (s *Session) cmdChildren(ctx context.Context, args []string) error {
	if s.currentRecord == nil {
		return fmt.Errorf("no record selected")
	}
	if s.currentRecord.ObjectType() != "Account" {
		return fmt.Errorf("children only applies to Account records")
	}

	var override []string
	if len(args) > 0 {
		override = withIDField(args)
	}
	listQuery, countQuery, err := soql.BuildChildren("Account", "ParentId", s.currentRecord.ID(),
		soql.ListFields("Account", "Name", override), s.cfg.ChildrenLimit)
	if err != nil {
		return err
	}
	result, err := s.client.Query(ctx, listQuery)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		s.out.Warnf("No child accounts")
		return nil
	}

	total := len(result.Records)
	if countResult, countErr := s.client.Query(ctx, countQuery); countErr == nil {
		total = countResult.TotalSize
	}

	s.push()
	if len(s.path) == 0 {
		s.path = []string{"Account:" + s.currentRecord.DisplayName()}
	}
	s.view = viewRelated
	s.relatedName = "Children"
	s.relatedRecords = result.Records
	s.currentRecords = nil
	s.path = append(s.path, "Children")

	s.out.SearchResults("Account", result.Records, displayFields(result.Records, nil), total)
	return nil
}

func (s *Session) cmdDescribe(ctx context.Context, args []string) error {
	objectType := s.contextObject()
	if len(args) > 0 {
		objectType = args[0]
	}
	if objectType == "" {
		return fmt.Errorf("usage: describe <object>")
	}

	detail, err := s.meta.DescribeDetailed(ctx, objectType)
	if err != nil {
		return err
	}
	s.out.DescribeDetail(detail)
	return nil
}

// fetchRelated resolves a relationship from the current record and fetches
// its rows. It never mutates session state.
func (s *Session) fetchRelated(ctx context.Context, name string) (*relationshipTarget, []records.Record, error) {
	if s.currentRecord == nil {
		return nil, nil, fmt.Errorf("no record selected")
	}

	parentType := s.currentRecord.ObjectType()
	target, err := s.rels.Resolve(ctx, parentType, name)
	if err != nil {
		return nil, nil, err
	}

	fields, err := s.listViewFields(ctx, target.ChildObject)
	if err != nil {
		return nil, nil, err
	}

	query, err := soql.BuildRelated(target.ChildObject, target.JoinField, s.currentRecord.ID(), fields, s.cfg.RelatedLimit)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return &relationshipTarget{Name: target.Name, ChildObject: target.ChildObject}, result.Records, nil
}

type relationshipTarget struct {
	Name        string
	ChildObject string
}

// listViewFields picks the list-view columns for an object type: the rich
// Account set, else the metadata-derived default column set.
func (s *Session) listViewFields(ctx context.Context, objectType string) ([]string, error) {
	if objectType == "Account" {
		return soql.ListFields("Account", "Name", nil), nil
	}
	return s.meta.DefaultQueryFields(ctx, objectType, 0)
}

// withIDField ensures a user-supplied column list carries Id, so a fetched
// row can still be selected and updated.
func withIDField(fields []string) []string {
	for _, f := range fields {
		if strings.EqualFold(f, "Id") {
			return fields
		}
	}
	return append([]string{"Id"}, fields...)
}

// contextObject is the object type the metadata commands act on: the
// selected record's type when one is open, else the searched type.
func (s *Session) contextObject() string {
	if s.currentRecord != nil {
		if t := s.currentRecord.ObjectType(); t != "" {
			return t
		}
	}
	return s.currentObject
}

func (s *Session) applySort(rows []records.Record, pipe *sortSpec) ([]records.Record, error) {
	if pipe == nil {
		return rows, nil
	}
	return records.SortByField(rows, pipe.field, pipe.descending)
}

// parseSearchFlags pulls --fields and --limit out of the argument list.
func parseSearchFlags(args []string) (fields []string, limit int, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--fields":
			if i+1 >= len(args) {
				return nil, 0, nil, fmt.Errorf("--fields needs a comma-separated list")
			}
			for _, f := range strings.Split(args[i+1], ",") {
				if f = strings.TrimSpace(f); f != "" {
					fields = append(fields, f)
				}
			}
			i++
		case "--limit":
			if i+1 >= len(args) {
				return nil, 0, nil, fmt.Errorf("--limit needs a number")
			}
			n, convErr := strconv.Atoi(args[i+1])
			if convErr != nil || n < 1 {
				return nil, 0, nil, fmt.Errorf("--limit needs a positive number")
			}
			limit = n
			i++
		default:
			rest = append(rest, args[i])
		}
	}
	return fields, limit, rest, nil
}

// displayFields picks table columns: the explicit field list when given,
// else the loaded field names of the first row.
func displayFields(rows []records.Record, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if len(rows) == 0 {
		return nil
	}
	return rows[0].FieldNames()
}
