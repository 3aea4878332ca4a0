// Package api is the REST client of the AfterYou backend.
//
// Authenticated calls carry the stored access token as a bearer header. When
// the backend answers 401 the client refreshes the token once, shares that
// refresh between concurrent callers, and retries the original request once.
// If the refresh cannot be performed the stored tokens are cleared, the
// logged-out hook runs and the call fails with ErrSessionExpired.
//
// Public calls (login, register, refresh, inheritance access and chain links)
// are sent without credentials and never trigger a refresh.
package api
