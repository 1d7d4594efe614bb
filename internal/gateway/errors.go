package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/adminsuite/adminctl/internal/core/domain"
)

// The backend speaks two incompatible error dialects. Auth endpoints answer
// FastAPI-style, {detail: string} or {detail: [{msg: string}]}; user
// endpoints answer {message: string}. Both are decoded permissively, one
// shape after the other, and normalized to a single readable message.

type authErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// decodeAuthError extracts the backend's message from an auth error body,
// falling back to the given generic message when no shape matches.
func decodeAuthError(body []byte, fallback string) *domain.AuthError {
	var envelope authErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(envelope.Detail, &msg); err == nil && msg != "" {
			return &domain.AuthError{Message: msg}
		}
		var items []validationItem
		if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
			return &domain.AuthError{Message: items[0].Msg}
		}
	}
	return &domain.AuthError{Message: fallback}
}

// decodeUserError extracts the backend's message from a user-endpoint error
// body, falling back to "HTTP <code>: <status text>".
func decodeUserError(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return errors.New(envelope.Message)
	}
	return fmt.Errorf("HTTP %d: %s", status, http.StatusText(status))
}
