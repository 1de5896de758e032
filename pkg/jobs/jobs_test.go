package jobs

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

func init() {
	audit.SetEnabled(false)
}

// fakeCustomersStore is an in-memory CustomersStore. Stateful on purpose:
// the idempotence tests re-run jobs against the mutated state.
type fakeCustomersStore struct {
	mu        sync.Mutex
	customers map[string]*model.Customer
}

func newFakeCustomersStore(customers ...*model.Customer) *fakeCustomersStore {
	s := &fakeCustomersStore{customers: make(map[string]*model.Customer)}
	for _, c := range customers {
		s.customers[c.ID] = c
	}
	return s
}

func (s *fakeCustomersStore) FetchCustomer(id string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return c, nil
}

func (s *fakeCustomersStore) ListExpiredTrials(now time.Time) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Customer
	for _, c := range s.customers {
		if c.IsActive && !c.IsDeleted && c.TrialEndsAt != nil && c.TrialEndsAt.Before(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCustomersStore) Deactivate(customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return store.ErrRecordNotFound
	}
	c.IsActive = false
	return nil
}

// recordingSender captures outbound messages.
type recordingSender struct {
	mu           sync.Mutex
	whatsapp     []string
	sms          []string
	whatsappFail bool
}

func (s *recordingSender) SendWhatsApp(to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.whatsappFail {
		return errors.New("whatsapp unavailable")
	}
	s.whatsapp = append(s.whatsapp, to)
	return nil
}

func (s *recordingSender) SendSMS(to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sms = append(s.sms, to)
	return nil
}

// fakeBillingStore covers the reminder job's slice of BillingStore.
type fakeBillingStore struct {
	mu       sync.Mutex
	payments map[string]*model.Payment
}

func newFakeBillingStore(payments ...*model.Payment) *fakeBillingStore {
	s := &fakeBillingStore{payments: make(map[string]*model.Payment)}
	for _, p := range payments {
		s.payments[p.ID] = p
	}
	return s
}

func (s *fakeBillingStore) ListDueUnreminded(cutoff time.Time) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	for _, p := range s.payments {
		if p.Status != model.PaymentStatusPaid && !p.ReminderSent && p.DueDate != nil && !p.DueDate.After(cutoff) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeBillingStore) MarkReminderSent(paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return store.ErrRecordNotFound
	}
	p.ReminderSent = true
	return nil
}

func (s *fakeBillingStore) MarkPaid(paymentID, stripeRef string, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return store.ErrRecordNotFound
	}
	p.Status = model.PaymentStatusPaid
	p.StripeRef = stripeRef
	p.PaidAt = &paidAt
	return nil
}

func (s *fakeBillingStore) RecordWebhookEvent(ev *model.WebhookEvent) error {
	return nil
}

func pastTime(days int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, -days)
	return &t
}

func TestTrialExpiryDeactivatesAndNotifies(t *testing.T) {
	customers := newFakeCustomersStore(
		&model.Customer{ID: "c1", Name: "Asha", Phone: "+911234567890", IsActive: true, TrialEndsAt: pastTime(1)},
		&model.Customer{ID: "c2", Name: "Ravi", IsActive: true, TrialEndsAt: nil},
	)
	sender := &recordingSender{}

	job := NewTrialExpiry(customers, sender, nil)
	require.NoError(t, job.Run())

	c1, err := customers.FetchCustomer("c1")
	require.NoError(t, err)
	assert.False(t, c1.IsActive)

	c2, err := customers.FetchCustomer("c2")
	require.NoError(t, err)
	assert.True(t, c2.IsActive, "customer without a trial must not be touched")

	assert.Equal(t, []string{"+911234567890"}, sender.whatsapp)
}

func TestTrialExpiryDoubleRunIsNoOp(t *testing.T) {
	customers := newFakeCustomersStore(
		&model.Customer{ID: "c1", Name: "Asha", Phone: "+911234567890", IsActive: true, TrialEndsAt: pastTime(1)},
	)
	sender := &recordingSender{}

	job := NewTrialExpiry(customers, sender, nil)
	require.NoError(t, job.Run())
	require.NoError(t, job.Run())

	// The second run sees no active expired trials, so exactly one
	// notification goes out.
	assert.Len(t, sender.whatsapp, 1)
}

func TestPaymentRemindersSendAndFlag(t *testing.T) {
	amount := 450.0
	billing := newFakeBillingStore(
		&model.Payment{ID: "p1", CustomerID: "c1", Amount: &amount, Status: model.PaymentStatusPending, DueDate: pastTime(2)},
		&model.Payment{ID: "p2", CustomerID: "c1", Status: model.PaymentStatusPaid, DueDate: pastTime(2)},
	)
	customers := newFakeCustomersStore(
		&model.Customer{ID: "c1", Name: "Asha", Phone: "+911234567890", IsActive: true},
	)
	sender := &recordingSender{}

	job := NewPaymentReminders(billing, customers, sender, 0, nil)
	require.NoError(t, job.Run())

	assert.Equal(t, []string{"+911234567890"}, sender.whatsapp)

	p1 := billing.payments["p1"]
	assert.True(t, p1.ReminderSent)
	p2 := billing.payments["p2"]
	assert.False(t, p2.ReminderSent, "paid payments are never reminded")
}

func TestPaymentRemindersFallBackToSMS(t *testing.T) {
	billing := newFakeBillingStore(
		&model.Payment{ID: "p1", CustomerID: "c1", Status: model.PaymentStatusOverdue, DueDate: pastTime(5)},
	)
	customers := newFakeCustomersStore(
		&model.Customer{ID: "c1", Name: "Asha", Phone: "+911234567890", IsActive: true},
	)
	sender := &recordingSender{whatsappFail: true}

	job := NewPaymentReminders(billing, customers, sender, 0, nil)
	require.NoError(t, job.Run())

	assert.Empty(t, sender.whatsapp)
	assert.Equal(t, []string{"+911234567890"}, sender.sms)
	assert.True(t, billing.payments["p1"].ReminderSent)
}

func TestPaymentRemindersSkipCustomersWithoutPhone(t *testing.T) {
	billing := newFakeBillingStore(
		&model.Payment{ID: "p1", CustomerID: "c1", Status: model.PaymentStatusPending, DueDate: pastTime(1)},
	)
	customers := newFakeCustomersStore(
		&model.Customer{ID: "c1", Name: "Asha", IsActive: true},
	)
	sender := &recordingSender{}

	job := NewPaymentReminders(billing, customers, sender, 0, nil)
	require.NoError(t, job.Run())

	assert.Empty(t, sender.whatsapp)
	assert.False(t, billing.payments["p1"].ReminderSent, "failed reminders leave the flag unset")
}

// fakeDeliveriesStore covers the photo cleanup job.
type fakeDeliveriesStore struct {
	mu         sync.Mutex
	deliveries map[string]*model.Delivery
}

func newFakeDeliveriesStore(deliveries ...*model.Delivery) *fakeDeliveriesStore {
	s := &fakeDeliveriesStore{deliveries: make(map[string]*model.Delivery)}
	for _, d := range deliveries {
		s.deliveries[d.ID] = d
	}
	return s
}

func (s *fakeDeliveriesStore) ListStalePhotos(cutoff time.Time) ([]model.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Delivery
	for _, d := range s.deliveries {
		if d.Delivered && d.PhotoURL != "" && d.DeliveryDate != nil && d.DeliveryDate.Before(cutoff) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDeliveriesStore) ClearPhoto(deliveryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[deliveryID]
	if !ok {
		return store.ErrRecordNotFound
	}
	d.PhotoURL = ""
	return nil
}

func TestPhotoCleanupClearsOnlyStaleReferences(t *testing.T) {
	deliveries := newFakeDeliveriesStore(
		&model.Delivery{ID: "d1", Delivered: true, PhotoURL: "https://photos/d1.jpg", DeliveryDate: pastTime(60)},
		&model.Delivery{ID: "d2", Delivered: true, PhotoURL: "https://photos/d2.jpg", DeliveryDate: pastTime(1)},
		&model.Delivery{ID: "d3", Delivered: false, PhotoURL: "https://photos/d3.jpg", DeliveryDate: pastTime(60)},
	)

	job := NewPhotoCleanup(deliveries, 30, nil)
	require.NoError(t, job.Run())

	assert.Empty(t, deliveries.deliveries["d1"].PhotoURL)
	assert.NotEmpty(t, deliveries.deliveries["d2"].PhotoURL, "recent photos are retained")
	assert.NotEmpty(t, deliveries.deliveries["d3"].PhotoURL, "undelivered rows are never touched")
}

func TestSchedulerRunOnce(t *testing.T) {
	customers := newFakeCustomersStore(
		&model.Customer{ID: "c1", Name: "Asha", IsActive: true, TrialEndsAt: pastTime(1)},
	)
	scheduler := NewScheduler(nil)
	require.NoError(t, scheduler.Register(ScheduleTrialExpiry, NewTrialExpiry(customers, &recordingSender{}, nil)))

	require.NoError(t, scheduler.RunOnce("trial-expiry"))

	c1, err := customers.FetchCustomer("c1")
	require.NoError(t, err)
	assert.False(t, c1.IsActive)

	assert.Error(t, scheduler.RunOnce("no-such-job"))
	assert.Contains(t, scheduler.Names(), "trial-expiry")
}

type failingJob struct {
	err error
}

func (j *failingJob) Name() string { return "failing-job" }
func (j *failingJob) Run() error   { return j.err }

func TestSchedulerRunOnceReturnsJobError(t *testing.T) {
	scheduler := NewScheduler(nil)
	require.NoError(t, scheduler.Register("@daily", &failingJob{err: assert.AnError}))

	err := scheduler.RunOnce("failing-job")

	assert.ErrorIs(t, err, assert.AnError)
}

type panickingJob struct{}

func (j *panickingJob) Name() string { return "panicking-job" }
func (j *panickingJob) Run() error   { panic("boom") }

func TestSchedulerRunOnceReturnsPanicAsError(t *testing.T) {
	scheduler := NewScheduler(nil)
	require.NoError(t, scheduler.Register("@daily", &panickingJob{}))

	err := scheduler.RunOnce("panicking-job")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}
