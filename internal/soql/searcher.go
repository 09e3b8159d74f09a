package soql

import (
	"context"

	"github.com/dbsmedya/sfnav/internal/logger"
	"github.com/dbsmedya/sfnav/internal/records"
	"github.com/dbsmedya/sfnav/internal/salesforce"
)

// Runner is the query surface of the remote client the searcher needs.
type Runner interface {
	Search(ctx context.Context, sosl string) (*salesforce.SearchResult, error)
	Query(ctx context.Context, soql string) (*salesforce.QueryResult, error)
}

// NameResolver resolves the human-readable name field of an object type.
type NameResolver interface {
	NameField(ctx context.Context, objectType string) (string, error)
}

// Searcher runs full-text searches with the structured exact-match
// fallback. Full-text failures are never surfaced to the caller: the
// fallback result (or its error) is what the user sees.
type Searcher struct {
	client Runner
	meta   NameResolver
	logger *logger.Logger
}

// NewSearcher creates a searcher over the given client and metadata resolver.
func NewSearcher(client Runner, meta NameResolver, log *logger.Logger) *Searcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Searcher{client: client, meta: meta, logger: log}
}

// Result is the outcome of one search: the rows, the advisory total, and
// whether the full-text path missed and the exact-match fallback supplied
// the rows.
type Result struct {
	Records      []records.Record
	Total        int
	UsedFallback bool
}

// Search finds records of one object type matching the query. The SOSL
// full-text query runs first; when it errors or returns zero rows for the
// requested type (rows grouped under other types do not count), the SOQL
// fallback runs with the same field list and limit, filtered and ordered by
// the resolved name field. The advisory total comes from a parallel COUNT()
// query with the fallback's predicate and no limit; any count failure
// degrades to the returned row count.
func (s *Searcher) Search(ctx context.Context, objectType, query string, limit int, fields []string) (*Result, error) {
	q, err := s.build(ctx, objectType, query, limit, fields)
	if err != nil {
		return nil, err
	}

	rows, usedFallback, err := s.run(ctx, objectType, q)
	if err != nil {
		return nil, err
	}

	total := len(rows)
	if countResult, err := s.client.Query(ctx, q.Count); err == nil {
		total = countResult.TotalSize
	} else {
		s.logger.Debugw("count query failed, using row count", "object", objectType, "error", err)
	}

	return &Result{Records: rows, Total: total, UsedFallback: usedFallback}, nil
}

func (s *Searcher) build(ctx context.Context, objectType, query string, limit int, fields []string) (*SearchQueries, error) {
	nameField, err := s.meta.NameField(ctx, objectType)
	if err != nil {
		return nil, err
	}
	return BuildSearch(objectType, query, limit, nameField, fields)
}

func (s *Searcher) run(ctx context.Context, objectType string, q *SearchQueries) ([]records.Record, bool, error) {
	result, err := s.client.Search(ctx, q.FullText)
	if err == nil {
		if rows := result.RecordsOfType(objectType); len(rows) > 0 {
			return rows, false, nil
		}
		s.logger.Debugw("full-text search returned no rows, using fallback", "object", objectType)
	} else {
		s.logger.Debugw("full-text search failed, using fallback", "object", objectType, "error", err)
	}

	queryResult, err := s.client.Query(ctx, q.Fallback)
	if err != nil {
		return nil, false, err
	}
	return queryResult.Records, true, nil
}
