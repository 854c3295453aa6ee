package portal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/portal/mock"
	"github.com/viant/portal/session"
)

func TestNewClient_PersistsSessionAcrossClients(t *testing.T) {
	server := mock.NewHTTPTestServer()
	defer server.Close()
	server.AddAccount("alice", "secret-pw")
	location := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first, err := NewClient(&ClientOptions{BaseURL: server.URL, Session: ClientSession{URL: location}})
	require.NoError(t, err)
	_, err = first.Auth.Login(ctx, "alice", "secret-pw")
	require.NoError(t, err)

	// a new client over the same location behaves like a page reload
	second, err := NewClient(&ClientOptions{BaseURL: server.URL, Session: ClientSession{URL: location}})
	require.NoError(t, err)
	authenticated, err := second.Auth.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, authenticated)

	server.ExpireAccessTokens()
	_, err = second.Tasks.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, server.Count("POST", "/auth/token/refresh/"))

	current, err := session.NewFileStore(location).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Identity)

	require.NoError(t, second.Auth.Logout(ctx))
	_, err = os.Stat(location)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewClient_Validation(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	_, err := NewClient(&ClientOptions{Session: ClientSession{Ephemeral: true}})
	assert.Error(t, err)

	_, err = NewClient(&ClientOptions{BaseURL: "http://localhost", Session: ClientSession{Ephemeral: true}, Log: ClientLogging{Level: "loud"}})
	assert.Error(t, err)
}

func TestClientOptions_Init(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://api.local")
	t.Setenv(EnvSessionURL, "")
	options := &ClientOptions{Session: ClientSession{URL: "~/portal/session.json"}}
	options.Init()
	assert.Equal(t, "http://api.local", options.BaseURL)
	assert.Equal(t, "warn", options.Log.Level)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "portal", "session.json"), options.Session.URL)

	options = &ClientOptions{BaseURL: "http://explicit", Session: ClientSession{Ephemeral: true}}
	options.Init()
	assert.Equal(t, "http://explicit", options.BaseURL)
	_, ok := options.SessionStore().(*session.FileStore)
	assert.False(t, ok)
}

func TestLoadOptions(t *testing.T) {
	location := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(location, []byte(`baseURL: https://example.com/api
session:
  url: /tmp/portal-session.json
refresh:
  independent: true
log:
  level: debug
`), 0o600))
	options, err := LoadOptions(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api", options.BaseURL)
	assert.Equal(t, "/tmp/portal-session.json", options.Session.URL)
	assert.True(t, options.Refresh.Independent)
	assert.Equal(t, "debug", options.Log.Level)

	_, err = LoadOptions(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
