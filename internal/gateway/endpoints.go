// Package gateway implements the HTTP contract with the admin backend.
// It is the single place request URLs are built and response envelopes
// decoded; the services above it never see the wire format.
package gateway

import "net/url"

// Endpoint paths, relative to the configured base URL.
const (
	EndpointHealth = "/health"

	EndpointLogin          = "/api/v1/auth/login"
	EndpointGoogleLogin    = "/api/v1/auth/google"
	EndpointForgotPassword = "/api/v1/auth/forgot-password"
	EndpointResetPassword  = "/api/v1/auth/reset-password"

	EndpointUsers       = "/api/v1/users"
	EndpointCurrentUser = "/api/v1/users/me"
)

// userPath builds the per-user endpoint for update and delete.
func userPath(id string) string {
	return EndpointUsers + "/" + url.PathEscape(id)
}
