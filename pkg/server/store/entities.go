package store

import "errors"

// ErrRecordNotFound is returned when a record id does not exist.
var ErrRecordNotFound = errors.New("record not found")

// Record is the attribute bag flowing through the entity gateway. Values
// are whatever the JSON decoder or the database driver produced.
type Record map[string]interface{}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Condition is one SQL predicate with its bind arguments, e.g.
// {"amount > ?", [100]}.
type Condition struct {
	Expr string
	Args []interface{}
}

// EntityStore abstracts row storage for the generic entity gateway. All
// methods address a table by name; the gateway guarantees the name came
// from the entity registry, never from the caller.
type EntityStore interface {
	// List returns records matching every condition, ordered by orderBy.
	// limit <= 0 means no limit.
	List(table string, conds []Condition, orderBy string, limit, offset int) ([]Record, error)

	// Get retrieves a single record by id. Returns ErrRecordNotFound if absent.
	Get(table, id string) (Record, error)

	// Insert persists a new record and returns it as stored.
	Insert(table string, rec Record) (Record, error)

	// Update applies changes to the record with the given id and returns
	// the updated record.
	Update(table, id string, changes Record) (Record, error)

	// Delete removes the record unconditionally.
	Delete(table, id string) error
}
