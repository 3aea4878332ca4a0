// Package common contains shared constants and sentinel errors used across
// AfterYou client components.
package common

// AccessTokenKey and RefreshTokenKey are the fixed storage keys for the
// session tokens, shared with the web front end.
const (
	AccessTokenKey  = "afteryou_token"
	RefreshTokenKey = "afteryou_refresh_token"
)

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

const BearerPrefix = "Bearer "
