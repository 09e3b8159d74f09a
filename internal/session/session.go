// Package session holds the interactive navigation state: the current
// search results, the selected record, the related list being browsed, and
// the stack that back-navigation unwinds.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbsmedya/sfnav/internal/config"
	"github.com/dbsmedya/sfnav/internal/logger"
	"github.com/dbsmedya/sfnav/internal/metadata"
	"github.com/dbsmedya/sfnav/internal/records"
	"github.com/dbsmedya/sfnav/internal/relationship"
	"github.com/dbsmedya/sfnav/internal/render"
	"github.com/dbsmedya/sfnav/internal/salesforce"
	"github.com/dbsmedya/sfnav/internal/soql"
)

// Client is the remote surface the session drives.
type Client interface {
	Query(ctx context.Context, soql string) (*salesforce.QueryResult, error)
	Search(ctx context.Context, sosl string) (*salesforce.SearchResult, error)
	GetRecord(ctx context.Context, objectType, recordID string) (records.Record, error)
	UpdateRecord(ctx context.Context, objectType, recordID string, fields map[string]interface{}) error
	DescribeObject(ctx context.Context, objectType string) (*salesforce.ObjectDescribe, error)
	ListObjects(ctx context.Context, showAll bool) ([]salesforce.SObjectSummary, error)
	InstanceURL() string
}

// ConfirmFunc asks the user a yes/no question. Anything but an explicit
// yes leaves the pending action uncommitted.
type ConfirmFunc func(prompt string) (bool, error)

// Session is the navigation engine behind the interactive prompt. It is
// single-threaded: one command runs to completion before the next starts.
type Session struct {
	client  Client
	cfg     *config.QueryConfig
	meta    *metadata.Resolver
	rels    *relationship.Resolver
	search  *soql.Searcher
	out     *render.Renderer
	logger  *logger.Logger
	confirm ConfirmFunc

	view           viewKind
	currentObject  string
	currentRecords []records.Record
	currentRecord  records.Record
	relatedName    string
	relatedRecords []records.Record

	stack []frame
	path  []string

	done bool
}

// New creates a session over a connected client.
func New(client Client, cfg *config.QueryConfig, out *render.Renderer, log *logger.Logger, confirm ConfirmFunc) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("query config is nil")
	}
	if out == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if confirm == nil {
		confirm = func(string) (bool, error) { return false, nil }
	}

	meta := metadata.NewResolver(client, log)
	s := &Session{
		client:  client,
		cfg:     cfg,
		meta:    meta,
		rels:    relationship.NewResolver(meta, log),
		search:  soql.NewSearcher(client, meta, log),
		out:     out,
		logger:  log,
		confirm: confirm,
	}
	out.SetInstanceURL(client.InstanceURL())
	return s, nil
}

// Done reports whether an exit command has been executed.
func (s *Session) Done() bool {
	return s.done
}

// Prompt returns the prompt text, reflecting the navigation path.
func (s *Session) Prompt() string {
	if len(s.path) == 0 {
		return "sfnav> "
	}
	return "sfnav /" + strings.Join(s.path, "/") + "> "
}

// Path returns a copy of the breadcrumb path.
func (s *Session) Path() []string {
	return append([]string(nil), s.path...)
}

// viewKind tags which navigation context is live. Exactly one of the
// context field groups is meaningful at a time, discriminated by the tag.
type viewKind int

const (
	viewEmpty viewKind = iota
	viewResults
	viewRecord
	viewRelated
)

// frame is one entry of the back-navigation stack. Records are snapshotted
// so later updates cannot rewrite history.
type frame struct {
	kind viewKind

	objectType string
	results    []records.Record

	record records.Record

	relatedName    string
	relatedRecords []records.Record

	path []string
}

// snapshot captures the current context as a frame, or nil when the
// session has no context to return to.
func (s *Session) snapshot() *frame {
	f := &frame{
		kind:       s.view,
		objectType: s.currentObject,
		path:       append([]string(nil), s.path...),
	}
	switch s.view {
	case viewRelated:
		f.relatedName = s.relatedName
		f.relatedRecords = cloneAll(s.relatedRecords)
		f.record = s.currentRecord.Clone()
	case viewRecord:
		f.record = s.currentRecord.Clone()
	case viewResults:
		f.results = cloneAll(s.currentRecords)
	default:
		return nil
	}
	return f
}

// push saves the current context. Callers push only after the transition's
// remote work has succeeded, so a failed command never grows the stack.
func (s *Session) push() {
	if f := s.snapshot(); f != nil {
		s.stack = append(s.stack, *f)
	}
}

// pop restores the most recent frame. It reports false on an empty stack.
func (s *Session) pop() bool {
	if len(s.stack) == 0 {
		return false
	}
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	s.view = f.kind
	s.currentObject = f.objectType
	s.path = f.path
	s.relatedName = ""
	s.relatedRecords = nil
	s.currentRecord = nil
	s.currentRecords = nil

	switch f.kind {
	case viewRelated:
		s.relatedName = f.relatedName
		s.relatedRecords = f.relatedRecords
		s.currentRecord = f.record
	case viewRecord:
		s.currentRecord = f.record
	case viewResults:
		s.currentRecords = f.results
	}
	return true
}

func cloneAll(recs []records.Record) []records.Record {
	if recs == nil {
		return nil
	}
	out := make([]records.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec.Clone()
	}
	return out
}
