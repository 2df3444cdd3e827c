package ports

import (
	"context"
	"errors"
	"time"
)

// ErrOTPNotFound is returned when no passcode record exists for a key,
// either because none was issued or because it expired.
var ErrOTPNotFound = errors.New("otp record not found")

// OTPStore holds hashed one-time passcodes with a bounded lifetime. Codes
// are stored hashed; the store never sees plaintext.
type OTPStore interface {
	// Save writes the hashed passcode under key with the given lifetime,
	// replacing any previous record (re-issuing resets the attempt count).
	Save(ctx context.Context, key, hash string, ttl time.Duration) error
	// Load returns the stored hash for key, or ErrOTPNotFound.
	Load(ctx context.Context, key string) (string, error)
	// Fail records a failed confirmation attempt and returns the running
	// total so the caller can enforce an attempt cap.
	Fail(ctx context.Context, key string) (int64, error)
	// Delete consumes the record. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
