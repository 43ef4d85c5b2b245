package service

import "errors"

// Sentinel errors returned by services. Controllers map these onto HTTP
// status codes; anything not listed here surfaces as an opaque 500.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet the policy")

	ErrValidation           = errors.New("validation failed")
	ErrRetrievalUnavailable = errors.New("retrieval service unavailable")
)

// ValidationError wraps ErrValidation with a field-level explanation that
// is safe to show the client.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(detail string) error {
	return &ValidationError{Detail: detail}
}
