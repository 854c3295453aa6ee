// Package api is a typed client for the back-office REST API: authentication,
// orders, services, tasks and users.
//
// Requests go through the session-aware transport, so an expired access token
// is refreshed once transparently. Responses are decoded into typed entities and
// validated; a payload that does not have the expected shape is rejected with
// ErrUnexpectedResponse rather than handed to the caller half-populated.
package api
