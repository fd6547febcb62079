// Package mailer delivers guest receipts and contact form messages.
package mailer

import (
	"context"
	"errors"
	"log"
)

// Templates known to every sender.
const (
	TemplateBill    = "bill"
	TemplateContact = "contact"
)

var ErrNoRecipient = errors.New("mail has no recipient")

// Message is one outgoing email. Template and Params drive hosted template
// services; Subject and Body are the plain text rendering used over SMTP.
type Message struct {
	To       string
	Subject  string
	Body     string
	Template string
	Params   map[string]any
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// LogSender only logs messages. It is used when no mail transport is
// configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	if m.To == "" {
		return ErrNoRecipient
	}
	log.Printf("[Mailer] no transport configured, dropping %q to %s", m.Subject, m.To)
	return nil
}
