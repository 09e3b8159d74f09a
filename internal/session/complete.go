package session

import (
	"strings"

	"github.com/dbsmedya/sfnav/internal/relationship"
)

// commonObjects is the static completion vocabulary for object-type
// arguments before any org metadata has been fetched.
var commonObjects = []string{
	"Account", "Asset", "Campaign", "Case", "Contact", "Contract",
	"Event", "Lead", "Opportunity", "Order", "Product2", "Task", "User",
}

// Completions returns candidates for the partial input line. The first
// word completes against command names; object-taking commands complete
// their first argument against the common object types, cd against the
// relationship vocabulary, and update and sort against the current
// record's loaded fields.
func (s *Session) Completions(line string) []string {
	words := strings.Fields(line)
	trailingSpace := strings.HasSuffix(line, " ")

	if len(words) == 0 {
		return commandNames()
	}
	if len(words) == 1 && !trailingSpace {
		return prefixed(commandNames(), words[0])
	}

	command := strings.ToLower(words[0])
	partial := ""
	if !trailingSpace {
		partial = words[len(words)-1]
	}

	switch command {
	case "search", "find", "get", "fields", "describe":
		if len(words) > 2 || (len(words) == 2 && trailingSpace) {
			return nil
		}
		return prefixed(commonObjects, partial)
	case "cd", "related":
		candidates := relationship.CommonNames()
		return prefixed(candidates, partial)
	case "update", "set", "history":
		if s.currentRecord == nil {
			return nil
		}
		return prefixed(s.currentRecord.FieldNames(), partial)
	default:
		return nil
	}
}

func prefixed(candidates []string, partial string) []string {
	if partial == "" {
		return candidates
	}
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(partial)) {
			out = append(out, c)
		}
	}
	return out
}
