// Package payments abstracts the Stripe operations needed by the handlers
// and jobs, so they depend on a small interface rather than the SDK.
package payments

import (
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
)

// Gateway abstracts payment-provider operations.
type Gateway interface {
	// CreatePaymentLink returns a hosted checkout URL for one payment.
	// amount is in the currency's smallest unit; referenceID is carried
	// through to the completion webhook so the event can be matched back
	// to the payment row.
	CreatePaymentLink(referenceID string, amount int64, currency, description string) (string, error)

	// VerifyWebhook validates a webhook payload signature and returns the
	// parsed event.
	VerifyWebhook(payload []byte, signature string) (*stripe.Event, error)
}

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

// Ensure StripeGateway implements Gateway
var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway creates a Stripe-backed payment gateway. successURL and
// cancelURL are where the hosted checkout page redirects the customer.
func NewStripeGateway(apiKey, webhookSecret, successURL, cancelURL string) *StripeGateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreatePaymentLink creates a single-payment checkout session and returns
// its hosted URL.
func (g *StripeGateway) CreatePaymentLink(referenceID string, amount int64, currency, description string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(referenceID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// VerifyWebhook validates the Stripe-Signature header against the payload.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
