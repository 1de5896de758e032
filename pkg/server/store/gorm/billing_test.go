package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

func TestListDueUnreminded(t *testing.T) {
	db, mock := newMockDB(t)
	billingStore := NewBillingStore(db)

	due := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "owner_email", "status", "reminder_sent"}).
		AddRow("p1", "merchant@example.com", "pending", false)
	mock.ExpectQuery(`SELECT (.+) FROM "payments"`).
		WillReturnRows(rows)

	payments, err := billingStore.ListDueUnreminded(due)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "p1", payments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	billingStore := NewBillingStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := billingStore.MarkPaid("nope", "pi_1", time.Now().UTC())

	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestRecordWebhookEventDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	billingStore := NewBillingStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "webhook_events"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := billingStore.RecordWebhookEvent(&model.WebhookEvent{
		ID:      "w1",
		EventID: "evt_1",
	})

	assert.ErrorIs(t, err, store.ErrDuplicateEvent)
}

func TestDeactivateCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	customersStore := NewCustomersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := customersStore.Deactivate("c1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearPhoto(t *testing.T) {
	db, mock := newMockDB(t)
	deliveriesStore := NewDeliveriesStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "deliveries" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := deliveriesStore.ClearPhoto("d1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
