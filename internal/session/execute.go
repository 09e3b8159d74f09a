package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// sortSpec is a parsed "| sort <field> [-desc]" pipe.
type sortSpec struct {
	field      string
	descending bool
}

// Execute parses and runs one command line. Failed commands leave the
// session state exactly as it was.
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// Only the listing commands take a pipe; everywhere else a "|" is
	// ordinary text, as in a raw SOQL string literal.
	command := line
	var pipe *sortSpec
	head := line
	if i := strings.IndexAny(head, " \t|"); i >= 0 {
		head = head[:i]
	}
	switch strings.ToLower(head) {
	case "ls", "dir":
		var err error
		command, pipe, err = splitPipe(line)
		if err != nil {
			return err
		}
	}

	args, err := shellquote.Split(command)
	if err != nil {
		return fmt.Errorf("cannot parse command: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	if n, numErr := strconv.Atoi(name); numErr == nil {
		return s.cmdSelect(ctx, n)
	}

	switch name {
	case "help", "?":
		s.printHelp()
		return nil
	case "exit", "quit":
		s.done = true
		return nil
	case "clear":
		s.out.Clear()
		return nil
	case "pwd":
		s.out.Breadcrumb(s.path)
		return nil
	case "search", "find":
		return s.cmdSearch(ctx, args[1:])
	case "get":
		return s.cmdGet(ctx, args[1:])
	case "query", "soql":
		return s.cmdQuery(ctx, rawArgs(command))
	case "list", "objects":
		return s.cmdListObjects(ctx, args[1:])
	case "select":
		if len(args) != 2 {
			return fmt.Errorf("usage: select <number>")
		}
		n, numErr := strconv.Atoi(args[1])
		if numErr != nil {
			return fmt.Errorf("usage: select <number>")
		}
		return s.cmdSelect(ctx, n)
	case "view", "show":
		return s.cmdShow(ctx, args[1:])
	case "fields":
		return s.cmdFields(ctx, args[1:])
	case "relationships", "rels":
		return s.cmdRelationships(ctx)
	case "related":
		return s.cmdRelated(ctx, args[1:])
	case "cd":
		return s.cmdCd(ctx, args[1:])
	case "ls", "dir":
		return s.cmdLs(ctx, pipe)
	case "back":
		return s.cmdBack()
	case "update", "set":
		return s.cmdUpdate(ctx, args[1:])
	case "history":
		return s.cmdHistory(ctx, args[1:])
	case "parent":
		return s.cmdParent(ctx, "ParentId", args[1:])
	case "ultimateparent":
		return s.cmdParent(ctx, "Ultimate_Parent__c", args[1:])
	case "children":
		return s.cmdChildren(ctx, args[1:])
	case "describe":
		return s.cmdDescribe(ctx, args[1:])
	default:
		return s.unknownCommand(name)
	}
}

// splitPipe separates a trailing "| sort <field> [-desc|-asc]" from the
// command proper.
func splitPipe(line string) (string, *sortSpec, error) {
	idx := strings.Index(line, "|")
	if idx < 0 {
		return line, nil, nil
	}

	command := strings.TrimSpace(line[:idx])
	pipeArgs := strings.Fields(line[idx+1:])
	if len(pipeArgs) == 0 || strings.ToLower(pipeArgs[0]) != "sort" {
		return "", nil, fmt.Errorf("only a sort pipe is supported, as in: ls | sort Name -desc")
	}
	if len(pipeArgs) < 2 {
		return "", nil, fmt.Errorf("usage: ... | sort <field> [-desc|-asc]")
	}

	spec := &sortSpec{field: pipeArgs[1]}
	for _, arg := range pipeArgs[2:] {
		switch strings.ToLower(arg) {
		case "-desc", "desc":
			spec.descending = true
		case "-asc", "asc":
			spec.descending = false
		default:
			return "", nil, fmt.Errorf("unknown sort option %q", arg)
		}
	}
	return command, spec, nil
}

// rawArgs returns everything after the command word with whitespace and
// quoting untouched, for commands that take free-form text.
func rawArgs(command string) string {
	fields := strings.Fields(command)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(command[len(fields[0]):])
}

func (s *Session) unknownCommand(name string) error {
	if matches := closeMatches(name, commandNames(), 1); len(matches) > 0 {
		return fmt.Errorf("unknown command %q, did you mean %q?", name, matches[0])
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

func (s *Session) printHelp() {
	s.out.Table([]string{"Command", "Description"}, [][]string{
		{"search <object> <text> [--fields a,b] [--limit n]", "full-text search, exact-match fallback"},
		{"get <object> <id>", "fetch one record by ID"},
		{"query <soql>", "run a raw SOQL query"},
		{"list [all]", "list the org's object types"},
		{"select <n> / <n>", "open result row n"},
		{"show [all]", "show the current record (all refetches every field)"},
		{"fields [object]", "list the object's fields"},
		{"relationships", "list child relationships of the current object"},
		{"related <name>", "peek at related records without navigating"},
		{"cd <name> / cd ..", "navigate into a relationship / go back"},
		{"ls [| sort <field> [-desc]]", "list the current context"},
		{"back", "return to the previous context"},
		{"update <field> <value>", "update one field after confirmation"},
		{"history [field] [--limit n]", "show field change history"},
		{"parent / ultimateparent [fields...]", "jump to the account's parent"},
		{"children [fields...]", "list child accounts"},
		{"describe [object]", "categorized field and relationship breakdown"},
		{"pwd", "print the navigation path"},
		{"clear", "clear the screen"},
		{"exit", "leave the shell"},
	})
}

func commandNames() []string {
	return []string{
		"search", "find", "get", "query", "list", "objects", "select",
		"view", "show", "fields", "relationships", "related", "cd",
		"ls", "dir", "back", "update", "history", "parent",
		"ultimateparent", "children", "describe", "pwd", "clear",
		"help", "exit", "quit",
	}
}
