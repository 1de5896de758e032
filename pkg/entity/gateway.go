package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/identity"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

var (
	// ErrNotFound is returned for a missing record id.
	ErrNotFound = errors.New("record not found")

	// ErrAccessDenied is returned when a record belongs to another tenant
	// and the caller is not a bypass-eligible super-admin.
	ErrAccessDenied = errors.New("access denied")
)

// Gateway exposes uniform CRUD operations over every registered entity.
type Gateway struct {
	store        store.EntityStore
	adminEmail   string
	maxListLimit int
	logger       *zap.Logger
}

// NewGateway creates a Gateway. adminEmail is the configured bypass
// principal, passed in explicitly rather than read from the environment at
// call sites. maxListLimit caps list page sizes; 0 means uncapped.
func NewGateway(entityStore store.EntityStore, adminEmail string, maxListLimit int, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		store:        entityStore,
		adminEmail:   adminEmail,
		maxListLimit: maxListLimit,
		logger:       logger,
	}
}

// ListParams carries the query inputs of a list operation.
type ListParams struct {
	Where  string
	SortBy string
	Limit  int
	Offset int

	// All requests a tenant-isolation bypass; honored only for a
	// super-admin principal.
	All bool
}

// List returns the caller's records of one entity. Unless bypassed, the
// filter is augmented with the caller's owner value, and soft-deletable
// entities are filtered to live rows unless the caller asked otherwise.
// The result is finite and not restartable: a fresh call recomputes from
// current state.
func (g *Gateway) List(def *Definition, caller *identity.Identity, p ListParams) ([]store.Record, error) {
	filter := ParseFilter(def, p.Where)
	conds := filter.Conditions

	bypass := p.All && caller.IsSuperAdmin(g.adminEmail)
	if def.OwnerField != "" && !bypass {
		// Caller-supplied owner conditions were discarded during parsing;
		// the forced condition is the only one on the owner column.
		conds = append(conds, store.Condition{
			Expr: fmt.Sprintf("%s = ?", def.OwnerField),
			Args: []interface{}{caller.OwnerValue(def.OwnerKind == OwnerEmail)},
		})
	}
	if def.SoftDelete && !filter.MentionsDeleted {
		conds = append(conds, store.Condition{Expr: "is_deleted = ?", Args: []interface{}{false}})
	}

	limit := p.Limit
	if g.maxListLimit > 0 && (limit <= 0 || limit > g.maxListLimit) {
		limit = g.maxListLimit
	}

	records, err := g.store.List(def.Table, conds, ParseSort(def, p.SortBy), limit, p.Offset)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		decorate(rec)
	}
	return records, nil
}

// Get retrieves one record by id, enforcing ownership for non-bypass callers.
// Soft-deleted records read as not-found, matching the default list view;
// Update and Delete still load them so trashed rows stay reachable.
func (g *Gateway) Get(def *Definition, caller *identity.Identity, recordID string) (store.Record, error) {
	rec, err := g.fetchOwned(def, caller, recordID)
	if err != nil {
		return nil, err
	}
	if def.SoftDelete && isSoftDeleted(rec) {
		return nil, ErrNotFound
	}
	decorate(rec)
	return rec, nil
}

// Create persists a new record. Caller-supplied ids and virtual date fields
// are stripped, the owner field is forced to the caller's identity, the
// coercion pipeline runs, and unknown fields are dropped before the write.
func (g *Gateway) Create(def *Definition, caller *identity.Identity, payload store.Record) (store.Record, error) {
	rec := payload.Clone()
	delete(rec, "id")
	delete(rec, VirtualCreatedDate)
	delete(rec, VirtualUpdatedDate)
	delete(rec, "created_at")
	delete(rec, "updated_at")

	if def.OwnerField != "" {
		rec[def.OwnerField] = caller.OwnerValue(def.OwnerKind == OwnerEmail)
	}

	Coerce(rec)
	g.dropUnknown(def, rec)

	now := time.Now().UTC()
	rec["id"] = uuid.NewString()
	rec["created_at"] = now
	rec["updated_at"] = now
	if def.SoftDelete {
		rec["is_deleted"] = false
	}

	created, err := g.store.Insert(def.Table, rec)
	if err != nil {
		return nil, err
	}
	decorate(created)
	return created, nil
}

// Update applies a partial attribute bag to an existing record. Not-found
// and ownership rules mirror Get. Server-managed and relation fields are
// stripped, coercion runs, and unknown fields are dropped before the write.
func (g *Gateway) Update(def *Definition, caller *identity.Identity, recordID string, payload store.Record) (store.Record, error) {
	existing, err := g.fetchOwned(def, caller, recordID)
	if err != nil {
		return nil, err
	}

	changes := payload.Clone()
	for _, field := range updateDenyList {
		delete(changes, field)
	}

	Coerce(changes)
	g.dropUnknown(def, changes)

	if len(changes) == 0 {
		decorate(existing)
		return existing, nil
	}

	changes["updated_at"] = time.Now().UTC()
	updated, err := g.store.Update(def.Table, recordID, changes)
	if err != nil {
		return nil, err
	}
	decorate(updated)
	return updated, nil
}

// Delete removes a record, or marks it deleted for soft-delete entities.
// Ownership rules mirror Get.
func (g *Gateway) Delete(def *Definition, caller *identity.Identity, recordID string) error {
	if _, err := g.fetchOwned(def, caller, recordID); err != nil {
		return err
	}

	if def.SoftDelete {
		now := time.Now().UTC()
		_, err := g.store.Update(def.Table, recordID, store.Record{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
		return err
	}
	return g.store.Delete(def.Table, recordID)
}

// fetchOwned loads a record and enforces the ownership invariant: a record
// with an owner field is only visible to its owner or a super-admin.
func (g *Gateway) fetchOwned(def *Definition, caller *identity.Identity, recordID string) (store.Record, error) {
	rec, err := g.store.Get(def.Table, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if def.OwnerField == "" || caller.IsSuperAdmin(g.adminEmail) {
		return rec, nil
	}

	owner := fmt.Sprintf("%v", rec[def.OwnerField])
	if owner != caller.OwnerValue(def.OwnerKind == OwnerEmail) {
		return nil, ErrAccessDenied
	}
	return rec, nil
}

// isSoftDeleted reports whether a loaded record sits in the trash. The flag
// may scan back as a bool or, protocol depending, a string.
func isSoftDeleted(rec store.Record) bool {
	switch v := rec["is_deleted"].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "t" || v == "1"
	default:
		return false
	}
}

// dropUnknown removes fields outside the entity schema before the write,
// logging what was rejected. This replaces retrying after a storage-level
// unknown-column error: the schema is known up front, so the rejected list
// is structured rather than parsed out of error text.
func (g *Gateway) dropUnknown(def *Definition, rec store.Record) {
	var dropped []string
	for field := range rec {
		if !def.HasColumn(field) {
			dropped = append(dropped, field)
			delete(rec, field)
		}
	}
	if len(dropped) > 0 {
		g.logger.Debug("dropped unknown fields",
			zap.String("entity", def.Name),
			zap.Strings("fields", dropped),
		)
	}
}

// decorate adds the virtual read-only date aliases to an outbound record.
func decorate(rec store.Record) {
	if v, ok := rec["created_at"]; ok {
		rec[VirtualCreatedDate] = v
	}
	if v, ok := rec["updated_at"]; ok {
		rec[VirtualUpdatedDate] = v
	}
}
