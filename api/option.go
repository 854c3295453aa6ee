package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/viant/portal/session"
)

// Option represents option
type Option func(c *Client)

// WithStore sets the session store
func WithStore(store session.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithTransport sets the base transport used for both authenticated and auth endpoint calls
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithHTTPClient replaces the authenticated client; the caller is then responsible for token handling
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRefreshCoalescing controls whether concurrent authorization failures share one refresh
func WithRefreshCoalescing(enabled bool) Option {
	return func(c *Client) {
		c.coalesce = enabled
	}
}
