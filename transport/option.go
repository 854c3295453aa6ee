package transport

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/viant/portal/session"
)

type Option func(*RoundTripper)

// WithStore sets session store
func WithStore(store session.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithRefresher sets the component exchanging a refresh token for a new access token
func WithRefresher(refresher Refresher) Option {
	return func(t *RoundTripper) {
		t.refresher = refresher
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(t *RoundTripper) {
		t.logger = logger
	}
}

// WithRefreshCoalescing controls whether concurrent authorization failures
// share a single in-flight refresh (default) or each refresh independently.
func WithRefreshCoalescing(enabled bool) Option {
	return func(t *RoundTripper) {
		t.coalesce = enabled
	}
}
