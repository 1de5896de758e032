package jobs

import (
	"time"

	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/extern/messaging"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// TrialExpiry deactivates customers whose trial window has closed. The store
// only returns customers that are still active, so re-running over the same
// state is a no-op.
type TrialExpiry struct {
	customers store.CustomersStore
	sender    messaging.Sender
	logger    *zap.Logger
}

// NewTrialExpiry creates the trial expiry job.
func NewTrialExpiry(customers store.CustomersStore, sender messaging.Sender, logger *zap.Logger) *TrialExpiry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrialExpiry{
		customers: customers,
		sender:    sender,
		logger:    logger,
	}
}

func (j *TrialExpiry) Name() string { return "trial-expiry" }

func (j *TrialExpiry) Run() error {
	expired, err := j.customers.ListExpiredTrials(time.Now().UTC())
	if err != nil {
		return err
	}

	for _, customer := range expired {
		if err := j.customers.Deactivate(customer.ID); err != nil {
			j.logger.Warn("failed to deactivate expired trial",
				zap.String("customer_id", customer.ID),
				zap.Error(err),
			)
			audit.Log(audit.JobEvent{Job: j.Name(), RecordID: customer.ID, ErrorMessage: err.Error()})
			continue
		}

		// Notification is best effort; the deactivation already happened.
		if customer.Phone != "" {
			body := "Hi " + customer.Name + ", your tiffin trial has ended. Contact your provider to continue your subscription."
			if err := j.sender.SendWhatsApp(customer.Phone, body); err != nil {
				j.logger.Warn("trial expiry notification failed",
					zap.String("customer_id", customer.ID),
					zap.Error(err),
				)
			}
		}
		audit.Log(audit.JobEvent{Job: j.Name(), RecordID: customer.ID, Success: true})
	}
	return nil
}
