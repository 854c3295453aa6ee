// Package transport provides an http.RoundTripper that attaches the current
// session's bearer token to every request and recovers from an expired
// access token by refreshing it once.
//
// A request that is rejected with 401 Unauthorized triggers a single refresh
// through the configured Refresher. On success the new access token is
// persisted and the request is replayed exactly once; the replay's result is
// returned as is, so a request chain never refreshes twice. When the refresh
// token is missing or the refresh fails the session is cleared (forced logout).
// A refresh interrupted by the caller's own context leaves the session as is.
package transport
