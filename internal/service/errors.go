package service

import "errors"

var (
	// ErrInvalidInput marks a malformed checkup request. It is always wrapped in an *InputError.
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrMoodRequired       = errors.New("mood is required")
	ErrMessageRequired    = errors.New("message is required")
)

// InputError names the checkup field that could not be used.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
