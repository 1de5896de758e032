// Package mailer sends transactional email. Bodies are written in
// markdown and rendered to HTML before sending.
package mailer

import (
	"bytes"
	"fmt"

	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
)

// Mailer sends one email. Failures are reported to the caller, which logs
// and continues (fire-and-continue semantics).
type Mailer interface {
	// Send renders the markdown body to HTML and delivers it.
	Send(to, subject, markdownBody string) error
}

// SMTPMailer implements Mailer over SMTP.
type SMTPMailer struct {
	host string
	port int
	from string
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from}
}

// Send renders the markdown body to HTML and delivers the message.
func (m *SMTPMailer) Send(to, subject, markdownBody string) error {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(markdownBody), &html); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, markdownBody)
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())

	client, err := mail.NewClient(m.host, mail.WithPort(m.port))
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}
