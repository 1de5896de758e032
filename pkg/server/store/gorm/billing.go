package gorm

import (
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// Ensure BillingStore implements store.BillingStore
var _ store.BillingStore = (*BillingStore)(nil)

// BillingStore implements store.BillingStore using GORM
type BillingStore struct {
	db *gorm.DB
}

// NewBillingStore creates a new BillingStore
func NewBillingStore(db *gorm.DB) *BillingStore {
	return &BillingStore{db: db}
}

// ListDueUnreminded returns unpaid payments due on or before the cutoff
// whose reminder flag is not yet set
func (s *BillingStore) ListDueUnreminded(cutoff time.Time) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.
		Where("status <> ?", model.PaymentStatusPaid).
		Where("due_date IS NOT NULL AND due_date <= ?", cutoff).
		Where("reminder_sent = ?", false).
		Order("due_date").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// MarkReminderSent sets the reminder flag on a payment
func (s *BillingStore) MarkReminderSent(paymentID string) error {
	return s.db.Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Update("reminder_sent", true).Error
}

// MarkPaid sets the payment status to paid
func (s *BillingStore) MarkPaid(paymentID, stripeRef string, paidAt time.Time) error {
	tx := s.db.Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":     model.PaymentStatusPaid,
			"paid_at":    paidAt,
			"stripe_ref": stripeRef,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// RecordWebhookEvent inserts a processed event row. The unique index on
// event_id turns a replayed event into ErrDuplicateEvent.
func (s *BillingStore) RecordWebhookEvent(ev *model.WebhookEvent) error {
	err := s.db.Create(ev).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrDuplicateEvent
		}
		return err
	}
	return nil
}

// Ensure CustomersStore implements store.CustomersStore
var _ store.CustomersStore = (*CustomersStore)(nil)

// CustomersStore implements store.CustomersStore using GORM
type CustomersStore struct {
	db *gorm.DB
}

// NewCustomersStore creates a new CustomersStore
func NewCustomersStore(db *gorm.DB) *CustomersStore {
	return &CustomersStore{db: db}
}

// FetchCustomer retrieves a customer by id
func (s *CustomersStore) FetchCustomer(id string) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrRecordNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ListExpiredTrials returns active, non-deleted customers whose trial ended
// before now
func (s *CustomersStore) ListExpiredTrials(now time.Time) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.
		Where("is_active = ?", true).
		Where("is_deleted = ?", false).
		Where("trial_ends_at IS NOT NULL AND trial_ends_at < ?", now).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// Deactivate clears the active flag on a customer
func (s *CustomersStore) Deactivate(customerID string) error {
	return s.db.Model(&model.Customer{}).
		Where("id = ?", customerID).
		Update("is_active", false).Error
}

// Ensure DeliveriesStore implements store.DeliveriesStore
var _ store.DeliveriesStore = (*DeliveriesStore)(nil)

// DeliveriesStore implements store.DeliveriesStore using GORM
type DeliveriesStore struct {
	db *gorm.DB
}

// NewDeliveriesStore creates a new DeliveriesStore
func NewDeliveriesStore(db *gorm.DB) *DeliveriesStore {
	return &DeliveriesStore{db: db}
}

// ListStalePhotos returns delivered deliveries older than the cutoff that
// still carry a photo reference
func (s *DeliveriesStore) ListStalePhotos(cutoff time.Time) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := s.db.
		Where("delivered = ?", true).
		Where("photo_url <> ''").
		Where("delivery_date IS NOT NULL AND delivery_date < ?", cutoff).
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

// ClearPhoto drops the photo reference from a delivery
func (s *DeliveriesStore) ClearPhoto(deliveryID string) error {
	return s.db.Model(&model.Delivery{}).
		Where("id = ?", deliveryID).
		Update("photo_url", "").Error
}
