package domain

import "time"

// RelationshipStatus is the declared nature of a link between two users.
type RelationshipStatus string

const (
	StatusDating  RelationshipStatus = "dating"
	StatusMarried RelationshipStatus = "married"
)

// Valid reports whether s is one of the recognised statuses.
func (s RelationshipStatus) Valid() bool {
	return s == StatusDating || s == StatusMarried
}

// Relationship links exactly two distinct users. It starts unverified and
// Verified only ever moves false -> true through an explicit confirmation.
type Relationship struct {
	ID           string             `json:"id"`
	CreatorID    string             `json:"creator_id"`
	OtherID      string             `json:"other_id"`
	Status       RelationshipStatus `json:"status"`
	Verified     bool               `json:"verified"`
	PhoneNumbers []string           `json:"phone_numbers"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Phone belongs to a user. Number is unique system-wide once assigned.
type Phone struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Number    string    `json:"number"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectAPIKey is a service-level credential pair owned by a user. The
// secret is stored hashed; the plaintext leaves the system exactly once,
// in the creation response.
type ProjectAPIKey struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PubKey     string    `json:"pub_key"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
