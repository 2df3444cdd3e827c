package domain

// TokenPair carries the two credentials returned by a successful login:
// a short-lived access token and a longer-lived refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult is the outcome of a credential check. When the account's
// email is still unverified no tokens are issued: Pending is set and OTP
// carries the freshly dispatched passcode for non-production echo.
type LoginResult struct {
	User    *User
	Tokens  *TokenPair
	Pending bool
	OTP     string
}
