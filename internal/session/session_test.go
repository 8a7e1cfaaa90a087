package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsLoggedOut(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "none", "session.json"))

	s, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Session{}, s)
}

func TestFileStore_PersistedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "session.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, LoggedIn("alice", "tok")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var keys map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Equal(t, true, keys[KeyLoggedIn])
	assert.Equal(t, "alice", keys[KeyEmail])
	assert.Equal(t, "tok", keys[KeyToken])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, store.Clear(ctx))
	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.IsLoggedIn)
	assert.Empty(t, s.Email)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	m, err := Open(ctx, store)
	require.NoError(t, err)
	assert.False(t, m.Current().IsLoggedIn)

	require.NoError(t, m.Write(ctx, LoggedIn("alice", "")))
	assert.Equal(t, "alice", m.Current().Email)

	// A second manager over the same store sees the persisted state.
	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	assert.True(t, reopened.Current().IsLoggedIn)
	assert.Equal(t, "alice", reopened.Current().Email)

	require.NoError(t, m.Clear(ctx))
	assert.Equal(t, Session{}, m.Current())
}

type failingStore struct{ Session }

func (f failingStore) Load(context.Context) (Session, error) { return f.Session, nil }
func (failingStore) Save(context.Context, Session) error      { return errors.New("disk full") }
func (failingStore) Clear(context.Context) error              { return errors.New("disk full") }

func TestManagerKeepsStateOnStoreError(t *testing.T) {
	ctx := context.Background()
	m, err := Open(ctx, failingStore{Session: LoggedIn("alice", "")})
	require.NoError(t, err)

	assert.Error(t, m.Write(ctx, LoggedIn("bob", "")))
	assert.Equal(t, "alice", m.Current().Email)

	assert.Error(t, m.Clear(ctx))
	assert.True(t, m.Current().IsLoggedIn)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), LoggedIn("alice", "tok"))
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", s.Token)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TODO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TODO_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := DialRedis(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	key := fmt.Sprintf("todolist:test:%d", time.Now().UnixNano())
	store := NewRedisStore(client, key)
	t.Cleanup(func() { client.Del(context.Background(), key) })

	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{}, s)

	require.NoError(t, store.Save(ctx, LoggedIn("alice", "tok")))
	s, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoggedIn("alice", "tok"), s)

	require.NoError(t, store.Clear(ctx))
	s, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{}, s)
}
