package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "session.json"))
		},
	}
}

func TestStore_IsAuthenticated(t *testing.T) {
	type step struct {
		session *Session
		fields  []Field
		clear   bool
		expect  bool
	}
	var testCases = []struct {
		description string
		steps       []step
	}{
		{
			description: "empty store",
			steps:       []step{{clear: true, expect: false}},
		},
		{
			description: "full write then clear",
			steps: []step{
				{session: &Session{AccessToken: "A1", RefreshToken: "R1", Identity: "alice"}, expect: true},
				{clear: true, expect: false},
			},
		},
		{
			description: "refresh only",
			steps: []step{
				{session: &Session{RefreshToken: "R1"}, expect: false},
			},
		},
		{
			description: "access only partial write",
			steps: []step{
				{session: &Session{AccessToken: "A2"}, fields: []Field{FieldAccess}, expect: true},
			},
		},
		{
			description: "access removed by empty partial write",
			steps: []step{
				{session: &Session{AccessToken: "A1", RefreshToken: "R1"}, expect: true},
				{session: &Session{}, fields: []Field{FieldAccess}, expect: false},
				{session: &Session{AccessToken: "A3"}, fields: []Field{FieldAccess}, expect: true},
			},
		},
	}

	for name, factory := range stores() {
		for _, testCase := range testCases {
			t.Run(name+"/"+testCase.description, func(t *testing.T) {
				ctx := context.Background()
				store := factory(t)
				for _, s := range testCase.steps {
					if s.clear {
						require.NoError(t, store.Clear(ctx))
					} else {
						require.NoError(t, store.Set(ctx, s.session, s.fields...))
					}
					actual, err := store.IsAuthenticated(ctx)
					require.NoError(t, err)
					assert.Equal(t, s.expect, actual)
					current, err := store.Get(ctx)
					require.NoError(t, err)
					assert.Equal(t, current.AccessToken != "", actual)
				}
			})
		}
	}
}

func TestStore_Clear(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			require.NoError(t, store.Set(ctx, &Session{AccessToken: "A1", RefreshToken: "R1", Identity: "alice"}))
			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))
			actual, err := store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, &Session{}, actual)
		})
	}
}

func TestStore_PartialWrite(t *testing.T) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			require.NoError(t, store.Set(ctx, &Session{AccessToken: "A1", RefreshToken: "R1", Identity: "alice"}))
			require.NoError(t, store.Set(ctx, &Session{AccessToken: "A2", Identity: "mallory"}, FieldAccess))
			actual, err := store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, &Session{AccessToken: "A2", RefreshToken: "R1", Identity: "alice"}, actual)
		})
	}
}

func TestFileStore_Reopen(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "nested", "session.json")
	first := NewFileStore(location)
	require.NoError(t, first.Set(ctx, &Session{AccessToken: "A1", RefreshToken: "R1", Identity: "alice"}))
	_, err := os.Stat(location)
	require.NoError(t, err)

	second := NewFileStore(location)
	actual, err := second.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", actual.AccessToken)
	assert.Equal(t, "R1", actual.RefreshToken)
	assert.Equal(t, "alice", actual.Identity)

	require.NoError(t, second.Clear(ctx))
	_, err = os.Stat(location)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_Corrupted(t *testing.T) {
	location := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(location, []byte("{not json"), 0o600))
	_, err := NewFileStore(location).Get(context.Background())
	assert.Error(t, err)
}

func TestSession_Token(t *testing.T) {
	assert.Nil(t, (&Session{RefreshToken: "R1"}).Token())
	token := (&Session{AccessToken: "A1"}).Token()
	require.NotNil(t, token)
	assert.Equal(t, "Bearer", token.Type())
	assert.Equal(t, "A1", token.AccessToken)
}
