package domain

import (
	"strings"
	"time"
)

// User is the identity root. A user whose PasswordHash is empty is a
// "ghost" account: it was conjured by a relationship invite and cannot
// authenticate until the invitee completes registration.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	VerifiedEmail bool      `json:"verified_email"`
	Active        bool      `json:"active"`
	Staff         bool      `json:"staff"`
	Admin         bool      `json:"admin"`
	Profile       Profile   `json:"profile"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile is the 1:1 display extension of a User. It is created in the same
// step as the user, both-or-neither.
type Profile struct {
	FullName string `json:"fullname"`
	Sex      string `json:"sex,omitempty"`
	Country  string `json:"country,omitempty"`
}

// HasUsablePassword reports whether the account can ever pass a password
// check. Ghost users created through relationship invites have none.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// IsElevated reports whether either elevated-privilege flag is set. Staff
// and admin independently satisfy staff-level checks.
func (u *User) IsElevated() bool {
	return u.Staff || u.Admin
}

// NormalizeEmail lowercases and trims an address so that uniqueness checks
// and lookups agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
