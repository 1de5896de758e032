// Package messaging abstracts WhatsApp/SMS sending behind a small
// interface so jobs and handlers never touch the Twilio SDK directly.
package messaging

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender sends a message to a customer phone number. Implementations are
// best-effort: failures are reported to the caller, which logs and
// continues (fire-and-continue semantics).
type Sender interface {
	// SendWhatsApp delivers body to the given phone number over WhatsApp.
	SendWhatsApp(to, body string) error

	// SendSMS delivers body to the given phone number over SMS.
	SendSMS(to, body string) error
}

// TwilioSender implements Sender against the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// Ensure TwilioSender implements Sender
var _ Sender = (*TwilioSender)(nil)

// NewTwilioSender creates a Twilio-backed message sender.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

// SendWhatsApp delivers body over WhatsApp.
func (s *TwilioSender) SendWhatsApp(to, body string) error {
	return s.send("whatsapp:"+to, "whatsapp:"+s.from, body)
}

// SendSMS delivers body over SMS.
func (s *TwilioSender) SendSMS(to, body string) error {
	return s.send(to, s.from, body)
}

func (s *TwilioSender) send(to, from, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	return nil
}
