package gorm

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// Ensure EntityStore implements store.EntityStore
var _ store.EntityStore = (*EntityStore)(nil)

// EntityStore implements store.EntityStore using GORM. Records are read and
// written as attribute-bag maps against the table named by the gateway; the
// gateway guarantees table and column names came from the entity registry.
type EntityStore struct {
	db *gorm.DB
}

// NewEntityStore creates a new EntityStore
func NewEntityStore(db *gorm.DB) *EntityStore {
	return &EntityStore{db: db}
}

// List returns records matching every condition, ordered by orderBy.
func (s *EntityStore) List(table string, conds []store.Condition, orderBy string, limit, offset int) ([]store.Record, error) {
	query := s.db.Table(table)
	for _, cond := range conds {
		query = query.Where(cond.Expr, cond.Args...)
	}
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []map[string]interface{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]store.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, store.Record(row))
	}
	return records, nil
}

// Get retrieves a single record by id.
func (s *EntityStore) Get(table, id string) (store.Record, error) {
	var rows []map[string]interface{}
	err := s.db.Table(table).Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrRecordNotFound
	}
	return store.Record(rows[0]), nil
}

// Insert persists a new record and returns it as stored.
func (s *EntityStore) Insert(table string, rec store.Record) (store.Record, error) {
	if err := s.db.Table(table).Create(map[string]interface{}(rec)).Error; err != nil {
		return nil, err
	}

	id, _ := rec["id"].(string)
	return s.Get(table, id)
}

// Update applies changes to the record with the given id and returns the
// updated record.
func (s *EntityStore) Update(table, id string, changes store.Record) (store.Record, error) {
	tx := s.db.Table(table).Where("id = ?", id).Updates(map[string]interface{}(changes))
	if tx.Error != nil {
		return nil, tx.Error
	}
	return s.Get(table, id)
}

// Delete removes the record unconditionally.
func (s *EntityStore) Delete(table, id string) error {
	return s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id).Error
}
