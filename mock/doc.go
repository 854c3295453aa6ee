// Package mock provides an in-memory stand-in for the back-office REST API
// that facilitates testing of the session and API clients.
//
// The server issues signed JWT access and refresh tokens, can expire or revoke
// them on demand, and records every request so tests can assert on the exact
// sequence of calls (for example a 401, a refresh and a single replay).
package mock
