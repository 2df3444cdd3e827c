package ports

import (
	"context"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// OTPService generates, delivers and confirms one-time passcodes. Purposes
// partition the keyspace so a reset-password code cannot confirm an email.
type OTPService interface {
	// Generate returns 6 uniformly random digits, leading zeros preserved.
	Generate() (string, error)
	// Issue generates a passcode, stores it hashed with an expiry, renders
	// the purpose's template with the user's display name and dispatches it
	// through the notifier. The plaintext is returned to the caller; a
	// dispatch failure is reported but does not undo the stored code.
	Issue(ctx context.Context, user *domain.User, purpose string) (string, error)
	// Confirm checks code against the stored hash for (email, purpose),
	// consuming it on success. Wrong codes count toward an attempt cap.
	Confirm(ctx context.Context, email, purpose, code string) error
}
