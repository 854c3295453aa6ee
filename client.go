package portal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/portal/api"
	"github.com/viant/portal/internal/logging"
	"github.com/viant/portal/session"
	"gopkg.in/yaml.v3"
)

const (
	// EnvBaseURL overrides ClientOptions.BaseURL when set.
	EnvBaseURL = "PORTAL_BASE_URL"
	// EnvSessionURL overrides ClientOptions.Session.URL when set.
	EnvSessionURL = "PORTAL_SESSION_URL"

	defaultSessionLocation = ".portal/session.json"
)

// ClientOptions
//
// defines options for configuring a portal client.
type ClientOptions struct {
	BaseURL string        `yaml:"baseURL" json:"baseURL,omitempty" short:"u" long:"url" description:"API base URL, falls back to PORTAL_BASE_URL"`
	Session ClientSession `yaml:"session,omitempty" json:"session,omitempty" group:"session"`
	Refresh ClientRefresh `yaml:"refresh,omitempty" json:"refresh,omitempty" group:"refresh"`
	Log     ClientLogging `yaml:"log,omitempty" json:"log,omitempty" group:"log"`

	// Store, if set, replaces the configured session store.
	Store session.Store `yaml:"-" json:"-" no-flag:"true"`
	// Transport, if set, is used for all HTTP calls.
	Transport http.RoundTripper `yaml:"-" json:"-" no-flag:"true"`
	// Logger, if set, replaces the logger built from Log.
	Logger *zerolog.Logger `yaml:"-" json:"-" no-flag:"true"`
}

// ClientSession defines where the session is persisted.
type ClientSession struct {
	URL       string `yaml:"url,omitempty" json:"url,omitempty" long:"session" description:"session location (path or afs URL)"`
	Ephemeral bool   `yaml:"ephemeral,omitempty" json:"ephemeral,omitempty" long:"ephemeral" description:"keep the session in memory only"`
}

// ClientRefresh defines token refresh behaviour.
type ClientRefresh struct {
	Independent bool `yaml:"independent,omitempty" json:"independent,omitempty" long:"independent-refresh" description:"refresh separately for every concurrent authorization failure"`
}

// ClientLogging defines logging options.
type ClientLogging struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty" long:"log-level" description:"log level (debug, info, warn, error)"`
}

func (c *ClientOptions) Init() {
	if value := os.Getenv(EnvBaseURL); value != "" && c.BaseURL == "" {
		c.BaseURL = value
	}
	if value := os.Getenv(EnvSessionURL); value != "" && c.Session.URL == "" {
		c.Session.URL = value
	}
	if c.Session.URL == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Session.URL = filepath.Join(home, defaultSessionLocation)
		} else {
			c.Session.URL = defaultSessionLocation
		}
	}
	if strings.HasPrefix(c.Session.URL, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.Session.URL = filepath.Join(home, c.Session.URL[2:])
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// Validate checks required options.
func (c *ClientOptions) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL was empty, use --url or %v", EnvBaseURL)
	}
	return nil
}

// SessionStore returns the configured session store.
func (c *ClientOptions) SessionStore() session.Store {
	if c.Store != nil {
		return c.Store
	}
	if c.Session.Ephemeral {
		c.Store = session.NewMemoryStore()
	} else {
		c.Store = session.NewFileStore(c.Session.URL)
	}
	return c.Store
}

// LoadOptions reads YAML client options from an afs URL.
func LoadOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &ClientOptions{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return ret, nil
}

// NewClient creates an API client with session persistence and token refresh configured via ClientOptions.
func NewClient(options *ClientOptions) (*api.Client, error) {
	options.Init()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	var logger zerolog.Logger
	if options.Logger != nil {
		logger = *options.Logger
	} else {
		var err error
		if logger, err = logging.New(options.Log.Level, os.Stderr); err != nil {
			return nil, err
		}
	}
	apiOptions := []api.Option{
		api.WithStore(options.SessionStore()),
		api.WithLogger(logger),
		api.WithRefreshCoalescing(!options.Refresh.Independent),
	}
	if options.Transport != nil {
		apiOptions = append(apiOptions, api.WithTransport(options.Transport))
	}
	return api.New(options.BaseURL, apiOptions...)
}
