package entity

import (
	"encoding/json"
	"fmt"

	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// comparison operators accepted in the filter value position.
var filterOperators = map[string]string{
	"ne":  "<>",
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// Filter is a parsed where expression.
type Filter struct {
	Conditions []store.Condition

	// MentionsDeleted is true when the caller filtered on is_deleted
	// explicitly, which suppresses the soft-delete default.
	MentionsDeleted bool

	// MentionsOwner is true when the caller tried to filter on the owner
	// column. The gateway discards those conditions for non-bypass callers
	// before forcing its own.
	MentionsOwner bool
}

// ParseFilter parses the where query parameter into SQL conditions against
// a registered entity. Malformed JSON is swallowed and treated as "no
// filter" (known leniency: only query shaping is affected, never data).
// Fields outside the entity schema are dropped.
func ParseFilter(def *Definition, raw string) Filter {
	var out Filter
	if raw == "" {
		return out
	}

	var where map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &where); err != nil {
		return out
	}

	for field, value := range where {
		if field == def.OwnerField && def.OwnerField != "" {
			out.MentionsOwner = true
			continue
		}
		if !def.HasColumn(field) && !sortAliasTarget(field, def) {
			continue
		}
		column := resolveAlias(field)
		if column == "is_deleted" {
			out.MentionsDeleted = true
		}
		out.Conditions = append(out.Conditions, fieldConditions(column, value)...)
	}
	return out
}

// sortAliasTarget reports whether field is a legacy alias whose resolved
// column exists on the entity.
func sortAliasTarget(field string, def *Definition) bool {
	target, ok := sortAliases[field]
	return ok && def.HasColumn(target)
}

func resolveAlias(field string) string {
	if target, ok := sortAliases[field]; ok {
		return target
	}
	return field
}

func fieldConditions(column string, value interface{}) []store.Condition {
	ops, isObject := value.(map[string]interface{})
	if !isObject {
		return []store.Condition{equality(column, value)}
	}

	var conds []store.Condition
	for op, operand := range ops {
		switch {
		case filterOperators[op] != "":
			conds = append(conds, store.Condition{
				Expr: fmt.Sprintf("%s %s ?", column, filterOperators[op]),
				Args: []interface{}{operand},
			})
		case op == "in":
			set, isList := operand.([]interface{})
			if !isList {
				set = []interface{}{operand}
			}
			conds = append(conds, store.Condition{
				Expr: fmt.Sprintf("%s IN ?", column),
				Args: []interface{}{set},
			})
		default:
			// Unrecognized operator keys pass through unmodified as an
			// equality on their operand (permissive default).
			conds = append(conds, equality(column, operand))
		}
	}
	return conds
}

func equality(column string, value interface{}) store.Condition {
	if value == nil {
		return store.Condition{Expr: fmt.Sprintf("%s IS NULL", column)}
	}
	return store.Condition{
		Expr: fmt.Sprintf("%s = ?", column),
		Args: []interface{}{value},
	}
}
