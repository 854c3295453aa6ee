package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/portal/api"
	"github.com/viant/portal/mock"
	"gopkg.in/yaml.v3"
)

type harness struct {
	t        *testing.T
	server   *mock.Server
	location string
}

func newHarness(t *testing.T) *harness {
	t.Setenv("PORTAL_PASSWORD", "")
	t.Setenv("PORTAL_BASE_URL", "")
	server := mock.NewHTTPTestServer()
	t.Cleanup(server.Close)
	server.AddAccount("alice", "secret-pw")
	return &harness{t: t, server: server, location: filepath.Join(t.TempDir(), "session.json")}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	out := &bytes.Buffer{}
	runner := New(context.Background(), strings.NewReader(stdin), out)
	err := runner.Run(append([]string{"-u", h.server.URL, "--session", h.location}, args...))
	return out.String(), err
}

func (h *harness) decode(output string, target interface{}) {
	require.NoError(h.t, json.Unmarshal([]byte(output), target), output)
}

func TestRunner_SessionLifecycle(t *testing.T) {
	h := newHarness(t)

	output, err := h.run("", "status")
	require.NoError(t, err)
	actual := &status{}
	h.decode(output, actual)
	assert.False(t, actual.Authenticated)

	_, err = h.run("", "login", "-n", "alice")
	assert.Error(t, err)

	output, err = h.run("", "login", "-n", "alice", "-p", "secret-pw")
	require.NoError(t, err)
	h.decode(output, actual)
	assert.EqualValues(t, &status{Authenticated: true, User: "alice"}, actual)

	output, err = h.run("", "status")
	require.NoError(t, err)
	h.decode(output, actual)
	assert.True(t, actual.Authenticated)

	_, err = h.run("", "logout")
	require.NoError(t, err)
	_, err = h.run("", "tasks", "list")
	assert.True(t, errors.Is(err, api.ErrUnauthorized), err)
}

func TestRunner_PasswordFromEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("PORTAL_PASSWORD", "secret-pw")
	_, err := h.run("", "login", "-n", "alice")
	require.NoError(t, err)
}

func TestRunner_TaskCommands(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "login", "-n", "alice", "-p", "secret-pw")
	require.NoError(t, err)

	output, err := h.run(`{"title":"Fix sink","status":"open"}`, "tasks", "create", "-f", "-")
	require.NoError(t, err)
	created := &api.Task{}
	h.decode(output, created)
	assert.Equal(t, "Fix sink", created.Title)
	id := strconv.Itoa(created.ID)

	output, err = h.run("", "tasks", "patch", "-s", "status=done", id)
	require.NoError(t, err)
	patched := &api.Task{}
	h.decode(output, patched)
	assert.Equal(t, "done", patched.Status)

	document := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(document, []byte("title: Fix sink and tap\nstatus: done\n"), 0o600))
	output, err = h.run("", "tasks", "update", "-f", document, id)
	require.NoError(t, err)
	h.decode(output, patched)
	assert.Equal(t, "Fix sink and tap", patched.Title)

	output, err = h.run("", "tasks", "list")
	require.NoError(t, err)
	var tasks []*api.Task
	h.decode(output, &tasks)
	assert.Len(t, tasks, 1)

	output, err = h.run("", "dashboard")
	require.NoError(t, err)
	summary := &api.Summary{}
	h.decode(output, summary)
	assert.Equal(t, 1, summary.Tasks.Total)
	assert.Equal(t, 1, summary.Tasks.ByStatus["done"])

	_, err = h.run("", "tasks", "delete", id)
	require.NoError(t, err)
	_, err = h.run("", "tasks", "get", id)
	assert.True(t, errors.Is(err, api.ErrNotFound), err)

	_, err = h.run(`{"status":"open"}`, "tasks", "create", "-f", "-")
	assert.True(t, errors.Is(err, api.ErrValidation), err)
	assert.Equal(t, "This field is required.", api.UserMessage(err, "failed"))
}

func TestRunner_Users(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "login", "-n", "alice", "-p", "secret-pw")
	require.NoError(t, err)

	output, err := h.run("", "users", "list")
	require.NoError(t, err)
	var users []*api.User
	h.decode(output, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	_, err = h.run("", "users", "create", "-f", "-")
	assert.Error(t, err)
}

func TestRunner_ConfigAndOutput(t *testing.T) {
	h := newHarness(t)
	config := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(config, []byte("baseURL: "+h.server.URL+"\nsession:\n  url: "+h.location+"\n"), 0o600))

	out := &bytes.Buffer{}
	err := New(context.Background(), strings.NewReader(""), out).Run([]string{"-c", config, "-o", "yaml", "status"})
	require.NoError(t, err)
	actual := &status{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), actual))
	assert.False(t, actual.Authenticated)
}

func TestRunner_ConfigOverridesEnvironment(t *testing.T) {
	h := newHarness(t)
	t.Setenv("PORTAL_BASE_URL", "http://127.0.0.1:1")
	config := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(config, []byte("baseURL: "+h.server.URL+"\nsession:\n  url: "+h.location+"\n"), 0o600))

	out := &bytes.Buffer{}
	err := New(context.Background(), strings.NewReader(""), out).Run([]string{"-c", config, "login", "-n", "alice", "-p", "secret-pw"})
	require.NoError(t, err)
	actual := &status{}
	h.decode(out.String(), actual)
	assert.True(t, actual.Authenticated)
	assert.Equal(t, 1, h.server.Count("POST", "/auth/token/"))
}

func TestRunner_Help(t *testing.T) {
	out := &bytes.Buffer{}
	err := New(context.Background(), strings.NewReader(""), out).Run([]string{"--help"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "login")
}

func TestParseFields(t *testing.T) {
	var testCases = []struct {
		description string
		pairs       []string
		expect      map[string]interface{}
		expectErr   bool
	}{
		{description: "string fallback", pairs: []string{"status=done"}, expect: map[string]interface{}{"status": "done"}},
		{description: "json values", pairs: []string{"assignee=3", "is_active=false"}, expect: map[string]interface{}{"assignee": float64(3), "is_active": false}},
		{description: "missing separator", pairs: []string{"status"}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := parseFields(testCase.pairs)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, testCase.expect, actual)
		})
	}
}
