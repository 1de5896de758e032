package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/extern/mailer"
	"github.com/tiffinhub/tiffinhub/pkg/extern/payments"
	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

const webhookBodyLimit = 1 << 16

// RegisterWebhookEndpoints registers the payment-provider callback. It is
// unauthenticated; the payload signature is the credential.
func RegisterWebhookEndpoints(s *server.Server) {
	s.Router.HandleFunc("/api/webhooks/stripe",
		handleStripeWebhook(s.Payments, s.BillingStore, s.Mailer, s.Logger)).Methods("POST")
}

func handleStripeWebhook(gateway payments.Gateway, billing store.BillingStore, mail mailer.Mailer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Unreadable request body")
			return
		}

		event, err := gateway.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid webhook signature")
			return
		}

		if event.Type != "checkout.session.completed" {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{"received": true})
			return
		}

		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed event payload")
			return
		}

		paymentID := session.ClientReferenceID
		stripeRef := ""
		if session.PaymentIntent != nil {
			stripeRef = session.PaymentIntent.ID
		}

		// The payment state change lands before the event row is recorded.
		// A failed mark leaves the event unrecorded, so the provider's
		// retry repeats the (idempotent) mark instead of short-circuiting
		// on a duplicate and leaving the payment unpaid forever.
		if paymentID != "" {
			if err := billing.MarkPaid(paymentID, stripeRef, time.Now().UTC()); err != nil {
				logger.Error("failed to mark payment paid",
					zap.String("payment_id", paymentID),
					zap.Error(err),
				)
				respondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		err = billing.RecordWebhookEvent(&model.WebhookEvent{
			ID:        uuid.NewString(),
			EventID:   event.ID,
			EventType: string(event.Type),
			PaymentID: paymentID,
		})
		if errors.Is(err, store.ErrDuplicateEvent) {
			// Replayed delivery; the confirmation already went out.
			respondWithJSON(w, http.StatusOK, map[string]interface{}{"received": true})
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		// Confirmation is best effort; the payment state is already
		// committed and a send failure must not fail the webhook.
		if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
			body := "Thank you! Your payment has been received and your account is up to date."
			if err := mail.Send(session.CustomerDetails.Email, "Payment received", body); err != nil {
				logger.Warn("payment confirmation email failed",
					zap.String("payment_id", paymentID),
					zap.Error(err),
				)
			}
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{"received": true})
	}
}
