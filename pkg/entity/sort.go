package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultSort orders results most-recently-created first.
const DefaultSort = "created_at DESC"

// ParseSort parses the sortBy query parameter into an ORDER BY clause.
// Accepted shapes:
//
//	"name"                       ascending by name
//	"-created_date"              descending, legacy alias resolved
//	`["name", "-price"]`         JSON list of fields
//	`[["name","asc"],["price","desc"]]`  JSON list of pairs
//
// Unknown fields are dropped; when nothing survives, the default sort is
// used. Malformed JSON falls back to treating the value as a bare field
// name, and failing that, the default sort (lenient-parse policy).
func ParseSort(def *Definition, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort
	}

	var terms []string
	if strings.HasPrefix(raw, "[") {
		terms = parseSortJSON(def, raw)
	} else if clause, ok := sortTerm(def, raw); ok {
		terms = []string{clause}
	}

	if len(terms) == 0 {
		return DefaultSort
	}
	return strings.Join(terms, ", ")
}

func parseSortJSON(def *Definition, raw string) []string {
	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}

	var terms []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if clause, ok := sortTerm(def, v); ok {
				terms = append(terms, clause)
			}
		case []interface{}:
			if len(v) == 0 {
				continue
			}
			field, _ := v[0].(string)
			direction := "asc"
			if len(v) > 1 {
				if d, isString := v[1].(string); isString {
					direction = d
				}
			}
			prefix := ""
			if strings.EqualFold(direction, "desc") {
				prefix = "-"
			}
			if clause, ok := sortTerm(def, prefix+field); ok {
				terms = append(terms, clause)
			}
		}
	}
	return terms
}

// sortTerm resolves one field term, with an optional leading sign for
// descending order, into a validated ORDER BY term.
func sortTerm(def *Definition, term string) (string, bool) {
	direction := "ASC"
	if strings.HasPrefix(term, "-") {
		direction = "DESC"
		term = term[1:]
	}
	column := resolveAlias(term)
	if !def.HasColumn(column) {
		return "", false
	}
	return fmt.Sprintf("%s %s", column, direction), true
}
