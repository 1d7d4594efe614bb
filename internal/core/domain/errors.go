package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// AuthError is an authentication failure reported by the backend. Message is
// the backend-supplied text (or a generic fallback when the body carried
// none); Field optionally names the offending input field.
type AuthError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *AuthError) Error() string {
	return e.Message
}
