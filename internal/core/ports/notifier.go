package ports

import "context"

// Notifier delivers messages over external channels. A delivery failure is
// reported back as an error and never rolls back the state transition that
// preceded the dispatch; callers may retry independently.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, to, body string) error
}
