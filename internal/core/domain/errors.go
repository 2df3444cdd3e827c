package domain

import "errors"

// Sentinel errors shared by services and repositories. The API layer maps
// these onto the structured error envelope; anything else becomes a 500.
var (
	ErrInvalidCredentials   = errors.New("email and password do not match")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrEmailTaken           = errors.New("email has already been used by another user")
	ErrPhoneExists          = errors.New("phone number has already been used")
	ErrAccountInactive      = errors.New("account has been deactivated")
	ErrPendingVerification  = errors.New("email is not yet verified")
	ErrAlreadyVerified      = errors.New("user has already been verified")
	ErrTokenInvalid         = errors.New("token is not valid")
	ErrTokenExpired         = errors.New("token has expired")
	ErrAPIKeyInvalid        = errors.New("api key is not valid")
	ErrForbidden            = errors.New("access forbidden")
	ErrWeakPassword         = errors.New("password does not meet the strength policy")
	ErrOTPMismatch          = errors.New("one time passcode is not valid")
	ErrInvalidPhone         = errors.New("phone number is not in the right format")
	ErrSelfRelationship     = errors.New("a relationship needs two distinct users")
	ErrRelationshipNotFound = errors.New("relationship not found")
)
