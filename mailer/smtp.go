package mailer

import (
	"context"
	"net/smtp"
	"strings"
)

// SMTP sends plain text mail with PLAIN auth.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string

	// send is swapped in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTP) Send(_ context.Context, m Message) error {
	if m.To == "" {
		return ErrNoRecipient
	}
	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	return send(s.Host+":"+s.Port, auth, s.From, []string{m.To}, compose(s.From, m))
}

func compose(from string, m Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + m.To + "\r\n")
	b.WriteString("Subject: " + strings.ReplaceAll(m.Subject, "\n", " ") + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}
