package jobs

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/extern/messaging"
	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// PaymentReminders nudges customers with unpaid payments that are due or
// overdue and have not been reminded yet. Marking the reminder flag is best
// effort: two overlapping runs may both send, which is accepted over holding
// a lock across a provider call.
type PaymentReminders struct {
	billing   store.BillingStore
	customers store.CustomersStore
	sender    messaging.Sender
	graceDays int
	logger    *zap.Logger
}

// NewPaymentReminders creates the reminder job. graceDays extends the due
// cutoff forward so customers hear about a payment shortly before it lapses.
func NewPaymentReminders(billing store.BillingStore, customers store.CustomersStore, sender messaging.Sender, graceDays int, logger *zap.Logger) *PaymentReminders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentReminders{
		billing:   billing,
		customers: customers,
		sender:    sender,
		graceDays: graceDays,
		logger:    logger,
	}
}

func (j *PaymentReminders) Name() string { return "payment-reminders" }

func (j *PaymentReminders) Run() error {
	cutoff := time.Now().UTC().AddDate(0, 0, j.graceDays)
	payments, err := j.billing.ListDueUnreminded(cutoff)
	if err != nil {
		return err
	}

	for _, payment := range payments {
		if err := j.remind(payment); err != nil {
			j.logger.Warn("payment reminder failed",
				zap.String("payment_id", payment.ID),
				zap.Error(err),
			)
			audit.Log(audit.JobEvent{Job: j.Name(), RecordID: payment.ID, ErrorMessage: err.Error()})
			continue
		}
		audit.Log(audit.JobEvent{Job: j.Name(), RecordID: payment.ID, Success: true})
	}
	return nil
}

func (j *PaymentReminders) remind(payment model.Payment) error {
	customer, err := j.customers.FetchCustomer(payment.CustomerID)
	if err != nil {
		return fmt.Errorf("fetch customer %s: %w", payment.CustomerID, err)
	}
	if customer.Phone == "" {
		return fmt.Errorf("customer %s has no phone number", customer.ID)
	}

	body := reminderBody(customer, payment)
	if err := j.sender.SendWhatsApp(customer.Phone, body); err != nil {
		j.logger.Debug("whatsapp send failed, falling back to sms",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		if err := j.sender.SendSMS(customer.Phone, body); err != nil {
			return err
		}
	}

	if err := j.billing.MarkReminderSent(payment.ID); err != nil {
		// The message went out; a missed flag only risks one extra send.
		j.logger.Warn("failed to mark reminder sent",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	}
	return nil
}

func reminderBody(customer *model.Customer, payment model.Payment) string {
	body := fmt.Sprintf("Hi %s, a tiffin payment is pending on your account.", customer.Name)
	if payment.Amount != nil {
		body = fmt.Sprintf("Hi %s, a tiffin payment of ₹%.2f is pending on your account.", customer.Name, *payment.Amount)
	}
	if payment.DueDate != nil {
		body += fmt.Sprintf(" It is due by %s.", payment.DueDate.Format("2 Jan 2006"))
	}
	if payment.PaymentLink != "" {
		body += " Pay here: " + payment.PaymentLink
	}
	return body
}
