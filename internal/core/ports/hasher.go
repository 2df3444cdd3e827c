package ports

// SecretHasher is the one-way hashing primitive shared by user passwords,
// API-key secrets and stored one-time passcodes. Verify is constant-time
// with respect to the secret content.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, storedHash string) bool
}
