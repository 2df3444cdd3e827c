package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes messages to the log instead of delivering them. It is
// the development and test channel; non-production deployments run on it
// when no SMTP relay is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendEmail(_ context.Context, to, subject, body string) error {
	n.log.Info().
		Str("channel", "email").
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification")
	return nil
}

func (n *LogNotifier) SendSMS(_ context.Context, to, body string) error {
	n.log.Info().
		Str("channel", "sms").
		Str("to", to).
		Str("body", body).
		Msg("notification")
	return nil
}
