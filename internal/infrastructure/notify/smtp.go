// Package notify provides the outbound message channels behind
// ports.Notifier. Implementations are constructed explicitly at startup
// and injected; there is no lazily-initialised shared client.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier delivers email through a plain SMTP relay. SMS delivery is
// not available on this channel and always reports failure.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPNotifier builds a notifier for the relay at addr (host:port).
// Username and password are optional; when empty the relay is used
// unauthenticated.
func NewSMTPNotifier(addr, from, username, password string) *SMTPNotifier {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPNotifier{addr: addr, from: from, auth: auth}
}

func (n *SMTPNotifier) SendEmail(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.from, to, subject, body)
	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) SendSMS(_ context.Context, to, _ string) error {
	return fmt.Errorf("smtp notifier cannot deliver sms to %s", to)
}
