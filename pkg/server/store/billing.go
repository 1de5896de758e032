package store

import (
	"errors"
	"time"

	"github.com/tiffinhub/tiffinhub/pkg/model"
)

// ErrDuplicateEvent is returned when a webhook event id was seen before.
var ErrDuplicateEvent = errors.New("webhook event already recorded")

// BillingStore abstracts the payment rows touched by the reminder job and
// the payment-provider webhook.
type BillingStore interface {
	// ListDueUnreminded returns unpaid payments due on or before the cutoff
	// whose reminder flag is not yet set.
	ListDueUnreminded(cutoff time.Time) ([]model.Payment, error)

	// MarkReminderSent sets the reminder flag on a payment. Best effort:
	// two overlapping job runs may both observe the flag unset.
	MarkReminderSent(paymentID string) error

	// MarkPaid sets the payment status to paid with the given timestamp
	// and provider reference.
	MarkPaid(paymentID, stripeRef string, paidAt time.Time) error

	// RecordWebhookEvent inserts a processed event row. Returns
	// ErrDuplicateEvent when the event id was already recorded.
	RecordWebhookEvent(ev *model.WebhookEvent) error
}

// CustomersStore abstracts the customer rows touched by the trial-expiry job.
type CustomersStore interface {
	// FetchCustomer retrieves a customer by id. Returns ErrRecordNotFound
	// if absent.
	FetchCustomer(id string) (*model.Customer, error)

	// ListExpiredTrials returns active, non-deleted customers whose trial
	// ended before now.
	ListExpiredTrials(now time.Time) ([]model.Customer, error)

	// Deactivate clears the active flag on a customer.
	Deactivate(customerID string) error
}

// DeliveriesStore abstracts the delivery rows touched by the photo-cleanup job.
type DeliveriesStore interface {
	// ListStalePhotos returns delivered deliveries older than the cutoff
	// that still carry a photo reference.
	ListStalePhotos(cutoff time.Time) ([]model.Delivery, error)

	// ClearPhoto drops the photo reference from a delivery.
	ClearPhoto(deliveryID string) error
}
