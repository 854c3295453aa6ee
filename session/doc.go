// Package session defines the client session (access token, refresh token and
// user identity) and the stores that persist it.
//
// It ships with an in-memory implementation that is sufficient for tests and
// short-lived processes, and a persistent implementation backed by
// github.com/viant/afs that survives process restarts.
//
// None of the stores validate token format or expiry; expiry is only
// discovered when the API rejects a request.
package session
