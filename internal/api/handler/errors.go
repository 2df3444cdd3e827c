package handler

// Error carries explicit envelope fields for endpoint-specific mappings
// the shared error table does not cover, e.g. the email-token validate
// endpoint answering 400 for a bad token where refresh answers 401.
type Error struct {
	Status  int
	Kind    string
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds an API error with explicit envelope fields.
func NewError(status int, kind, code, message string) *Error {
	return &Error{Status: status, Kind: kind, Code: code, Message: message}
}
