package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefs struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

func openBolt(t *testing.T) *BoltStore {
	t.Helper()
	store, err := Init(filepath.Join(t.TempDir(), "nested", "coursehub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openBolt(t)

	_, err := store.Get(ctx, "p1", "user")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "p1", "user", []byte("alice")))
	v, err := store.Get(ctx, "p1", "user")
	require.NoError(t, err)
	assert.Equal(t, "alice", string(v))

	_, err = store.Get(ctx, "p2", "user")
	assert.ErrorIs(t, err, ErrNotFound, "scopes must not leak into each other")

	require.NoError(t, store.Delete(ctx, "p1", "user"))
	_, err = store.Get(ctx, "p1", "user")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "never-written", "user"))
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coursehub.db")

	store, err := Init(path)
	require.NoError(t, err)
	require.NoError(t, SaveJSON(ctx, Scope(store, "p1"), "prefs", prefs{Theme: "dark", Count: 2}))
	require.NoError(t, store.Close())

	store, err = Init(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := GetJSON[prefs](ctx, Scope(store, "p1"), "prefs")
	require.NoError(t, err)
	assert.Equal(t, prefs{Theme: "dark", Count: 2}, *got)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("bright")
	require.NoError(t, m.Put(ctx, "p", "theme", value))
	value[0] = 'X'

	v, err := m.Get(ctx, "p", "theme")
	require.NoError(t, err)
	assert.Equal(t, "bright", string(v))
}

func TestGetJSONCorrupt(t *testing.T) {
	ctx := context.Background()
	b := Scope(NewMemory(), "p")
	require.NoError(t, b.Put(ctx, "prefs", []byte("{not json")))

	_, err := GetJSON[prefs](ctx, b, "prefs")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "coursehub:p1:user", redisKey("coursehub", "p1", "user"))
	assert.Equal(t, "p1:theme", redisKey("", "p1", "theme"))
}

func TestProfileID(t *testing.T) {
	a, b := NewProfileID(), NewProfileID()
	assert.NotEqual(t, a, b)
	assert.True(t, ValidProfileID(a))
	assert.False(t, ValidProfileID("../../etc/passwd"))
	assert.False(t, ValidProfileID(""))
}
