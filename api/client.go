package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/portal/session"
	"github.com/viant/portal/transport"
)

const (
	pathToken    = "/auth/token/"
	pathRefresh  = "/auth/token/refresh/"
	pathRegister = "/auth/register/client/"
	pathOrders   = "/orders/"
	pathServices = "/services/"
	pathTasks    = "/tasks/"
	pathUsers    = "/users/"

	// HeaderRequestID correlates a logical request and its replay after a refresh.
	HeaderRequestID = "X-Request-ID"
)

type Client struct {
	baseURL    string
	store      session.Store
	transport  http.RoundTripper
	httpClient *http.Client // authenticated, refreshes on 401
	authClient *http.Client // plain, used for auth endpoints
	logger     zerolog.Logger
	coalesce   bool

	Auth     *Auth
	Orders   *Resource[Order]
	Services *Resource[Service]
	Tasks    *Resource[Task]
	Users    *Users
}

// New creates an API client for baseURL, e.g. https://example.com/api.
func New(baseURL string, options ...Option) (*Client, error) {
	ret := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: http.DefaultTransport,
		logger:    zerolog.Nop(),
		coalesce:  true,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.baseURL == "" {
		return nil, fmt.Errorf("base URL was empty")
	}
	if ret.store == nil {
		ret.store = session.NewMemoryStore()
	}
	ret.Auth = &Auth{client: ret}
	ret.authClient = &http.Client{Transport: ret.transport}
	if ret.httpClient == nil {
		rt, err := transport.New(
			transport.WithStore(ret.store),
			transport.WithRefresher(ret.Auth),
			transport.WithTransport(ret.transport),
			transport.WithLogger(ret.logger),
			transport.WithRefreshCoalescing(ret.coalesce),
		)
		if err != nil {
			return nil, err
		}
		ret.httpClient = &http.Client{Transport: rt}
	}
	ret.Orders = newResource[Order](ret, pathOrders)
	ret.Services = newResource[Service](ret, pathServices)
	ret.Tasks = newResource[Task](ret, pathTasks)
	ret.Users = &Users{resource: newResource[User](ret, pathUsers)}
	return ret, nil
}

// Store returns the session store.
func (c *Client) Store() session.Store {
	return c.store
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// send issues a JSON request and decodes a JSON response into result (when not nil).
func (c *Client) send(ctx context.Context, client *http.Client, method, path string, query url.Values, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %v %v request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}
	URL := c.baseURL + path
	if len(query) > 0 {
		URL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return err
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	logger := c.logger.With().Str("method", method).Str("path", path).Str("request_id", requestID).Logger()

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return fmt.Errorf("%v %v: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %v %v response: %w", method, path, err)
	}
	logger.Debug().Int("status", resp.StatusCode).Msg("request completed")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, data)
	}
	if result == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return unexpected("%v %v: empty body", method, path)
	}
	if err = json.Unmarshal(data, result); err != nil {
		return unexpected("%v %v: %v", method, path, err)
	}
	if aValidator, ok := result.(validator); ok {
		if err = aValidator.Validate(); err != nil {
			return unexpected("%v %v: %v", method, path, err)
		}
	}
	return nil
}
