package endpoints

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v72"

	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// MockEntityStore implements store.EntityStore for testing using testify/mock
type MockEntityStore struct {
	mock.Mock
}

func NewMockEntityStore() *MockEntityStore {
	return &MockEntityStore{}
}

func (m *MockEntityStore) List(table string, conds []store.Condition, orderBy string, limit, offset int) ([]store.Record, error) {
	args := m.Called(table, conds, orderBy, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Record), args.Error(1)
}

func (m *MockEntityStore) Get(table, id string) (store.Record, error) {
	args := m.Called(table, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockEntityStore) Insert(table string, rec store.Record) (store.Record, error) {
	args := m.Called(table, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockEntityStore) Update(table, id string, changes store.Record) (store.Record, error) {
	args := m.Called(table, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}

func (m *MockEntityStore) Delete(table, id string) error {
	args := m.Called(table, id)
	return args.Error(0)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) FetchUser(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FetchUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) ListUsers(limit, offset int) ([]model.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersStore) UpdateUser(id string, changes map[string]interface{}) (*model.User, error) {
	args := m.Called(id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockBillingStore implements store.BillingStore for testing using testify/mock
type MockBillingStore struct {
	mock.Mock
}

func NewMockBillingStore() *MockBillingStore {
	return &MockBillingStore{}
}

func (m *MockBillingStore) ListDueUnreminded(cutoff time.Time) ([]model.Payment, error) {
	args := m.Called(cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockBillingStore) MarkReminderSent(paymentID string) error {
	args := m.Called(paymentID)
	return args.Error(0)
}

func (m *MockBillingStore) MarkPaid(paymentID, stripeRef string, paidAt time.Time) error {
	args := m.Called(paymentID, stripeRef, paidAt)
	return args.Error(0)
}

func (m *MockBillingStore) RecordWebhookEvent(ev *model.WebhookEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

// MockPaymentsGateway implements payments.Gateway for testing using testify/mock
type MockPaymentsGateway struct {
	mock.Mock
}

func NewMockPaymentsGateway() *MockPaymentsGateway {
	return &MockPaymentsGateway{}
}

func (m *MockPaymentsGateway) CreatePaymentLink(referenceID string, amount int64, currency, description string) (string, error) {
	args := m.Called(referenceID, amount, currency, description)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentsGateway) VerifyWebhook(payload []byte, signature string) (*stripe.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Event), args.Error(1)
}

// MockMailer implements mailer.Mailer for testing using testify/mock
type MockMailer struct {
	mock.Mock
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(to, subject, markdownBody string) error {
	args := m.Called(to, subject, markdownBody)
	return args.Error(0)
}
