package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

func TestEntityStoreList(t *testing.T) {
	db, mock := newMockDB(t)
	entityStore := NewEntityStore(db)

	rows := sqlmock.NewRows([]string{"id", "name", "owner_id"}).
		AddRow("c1", "Asha", "tenant-a").
		AddRow("c2", "Ravi", "tenant-a")
	mock.ExpectQuery(`SELECT (.+) FROM "customers" WHERE owner_id = (.+) ORDER BY created_at DESC`).
		WithArgs("tenant-a").
		WillReturnRows(rows)

	records, err := entityStore.List("customers",
		[]store.Condition{{Expr: "owner_id = ?", Args: []interface{}{"tenant-a"}}},
		"created_at DESC", 0, 0)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Asha", records[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityStoreGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	entityStore := NewEntityStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := entityStore.Get("customers", "nope")

	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestEntityStoreDelete(t *testing.T) {
	db, mock := newMockDB(t)
	entityStore := NewEntityStore(db)

	mock.ExpectExec(`DELETE FROM deliveries WHERE id = (.+)`).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := entityStore.Delete("deliveries", "d1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
