package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// OTP purposes partition the store keyspace so a reset code can never
// confirm an email and vice versa.
const (
	PurposeVerifyEmail   = "verify-email"
	PurposeResetPassword = "reset-password"
)

const (
	otpDigits      = 6
	otpMaxAttempts = 5
)

// OTPService implements ports.OTPService: uniformly random numeric codes,
// stored hashed with an expiry, compared server-side at confirmation time.
type OTPService struct {
	store    ports.OTPStore
	notifier ports.Notifier
	hasher   ports.SecretHasher
	ttl      time.Duration
	log      zerolog.Logger
}

func NewOTPService(store ports.OTPStore, notifier ports.Notifier, hasher ports.SecretHasher, ttl time.Duration, log zerolog.Logger) *OTPService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPService{store: store, notifier: notifier, hasher: hasher, ttl: ttl, log: log}
}

// Generate returns otpDigits uniformly random digits, leading zeros
// preserved. The code is always delivered and compared as text.
func (s *OTPService) Generate() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// Issue generates, stores and dispatches a passcode for the user. The
// stored record replaces any previous one for the same purpose. A failed
// dispatch is logged and reported, but the stored code stays valid so the
// caller can retry delivery without minting a new one.
func (s *OTPService) Issue(ctx context.Context, user *domain.User, purpose string) (string, error) {
	code, err := s.Generate()
	if err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	if err := s.store.Save(ctx, otpKey(user.Email, purpose), hash, s.ttl); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	subject, body := renderOTPMessage(purpose, user.Profile.FullName, code)
	if err := s.notifier.SendEmail(ctx, user.Email, subject, body); err != nil {
		s.log.Error().Err(err).
			Str("email", user.Email).
			Str("purpose", purpose).
			Msg("otp dispatch failed")
		return code, fmt.Errorf("dispatch otp: %w", err)
	}

	return code, nil
}

// Confirm compares code against the stored hash for (email, purpose) and
// consumes the record on success. Wrong codes count toward the attempt
// cap; exceeding it burns the record.
func (s *OTPService) Confirm(ctx context.Context, email, purpose, code string) error {
	key := otpKey(email, purpose)

	hash, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ports.ErrOTPNotFound) {
			return domain.ErrOTPMismatch
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if !s.hasher.Verify(code, hash) {
		attempts, ferr := s.store.Fail(ctx, key)
		if ferr == nil && attempts >= otpMaxAttempts {
			_ = s.store.Delete(ctx, key)
		}
		return domain.ErrOTPMismatch
	}

	_ = s.store.Delete(ctx, key)
	return nil
}

func otpKey(email, purpose string) string {
	return purpose + ":" + domain.NormalizeEmail(email)
}

// renderOTPMessage produces the notification subject and body for a
// purpose. Templates follow the original transactional mails.
func renderOTPMessage(purpose, name, code string) (subject, body string) {
	if name == "" {
		name = "there"
	}
	switch purpose {
	case PurposeResetPassword:
		subject = "Password Reset One Time Password"
		body = fmt.Sprintf("Hi %s,\n\nUse this one time password to reset your account password: %s\n\nIf you did not request a reset, ignore this message.", name, code)
	default:
		subject = "Email Verification One Time Password"
		body = fmt.Sprintf("Hi %s,\n\nUse this one time password to verify your email address: %s", name, code)
	}
	return subject, body
}
