package state

import (
	"context"
	"errors"
	"testing"

	"coursehub/auth"
	"coursehub/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBucket struct{ database.Bucket }

func (failingBucket) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestSessionSaveThenReload(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemory()

	store := NewSessionStore(database.Scope(kv, "p1"))
	sess := Session{UserID: "u-1", Name: "Ada", Email: "ada@example.com", Role: RoleInstructor}
	require.NoError(t, store.Save(ctx, sess))
	assert.Equal(t, &sess, store.Current())

	// a fresh store over the same scope simulates a reload
	reloaded := NewSessionStore(database.Scope(kv, "p1"))
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &sess, got)
}

func TestSessionClear(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemory()
	store := NewSessionStore(database.Scope(kv, "p1"))
	require.NoError(t, store.Save(ctx, Session{UserID: "u", Role: RoleStudent}))

	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Current())

	got, err := NewSessionStore(database.Scope(kv, "p1")).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionLoadRejectsUnknownRoleAndCorruptJSON(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemory()

	require.NoError(t, kv.Put(ctx, "p1", "user", []byte(`{"user_id":"u","role":"superuser"}`)))
	got, err := NewSessionStore(database.Scope(kv, "p1")).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, kv.Put(ctx, "p2", "user", []byte(`{"user_id":`)))
	got, err = NewSessionStore(database.Scope(kv, "p2")).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionTokenSealedAtRest(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemory()
	c, err := auth.NewTokenCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	store := NewSessionStore(database.Scope(kv, "p1")).WithSealer(c)
	sess := Session{UserID: "u", Role: RoleStudent, Token: "tok-123"}
	require.NoError(t, store.Save(ctx, sess))
	assert.Equal(t, "tok-123", store.Current().Token)

	raw, err := kv.Get(ctx, "p1", "user")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-123")

	got, err := NewSessionStore(database.Scope(kv, "p1")).WithSealer(c).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &sess, got)

	other, err := auth.NewTokenCipher([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	got, err = NewSessionStore(database.Scope(kv, "p1")).WithSealer(other).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleInstructor, RoleAdministrator, RoleAnalyst} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestThemeDefaultsToBrightWithoutWriting(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemory()
	store := NewThemeStore(database.Scope(kv, "p1"))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeBright, got)

	_, err = kv.Get(ctx, "p1", "theme")
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, store.Set(ctx, ThemeDark))
	again := NewThemeStore(database.Scope(kv, "p1"))
	got, err = again.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got)
}

func TestThemeToggleTwice(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemory()
	store := NewThemeStore(database.Scope(kv, "p1"))
	original, err := store.Load(ctx)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		next, err := store.Toggle(ctx)
		require.NoError(t, err)
		assert.Equal(t, store.Current(), next)

		raw, err := kv.Get(ctx, "p1", "theme")
		require.NoError(t, err)
		assert.Equal(t, string(store.Current()), string(raw))
	}
	assert.Equal(t, original, store.Current())
}

func TestThemeToggleKeepsValueWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	store := NewThemeStore(failingBucket{database.Scope(database.NewMemory(), "p")})

	_, err := store.Toggle(ctx)
	assert.Error(t, err)
	assert.Equal(t, ThemeBright, store.Current())
}

func TestThemeSet(t *testing.T) {
	ctx := context.Background()
	store := NewThemeStore(database.Scope(database.NewMemory(), "p"))
	require.NoError(t, store.Set(ctx, ThemeDark))
	assert.Equal(t, ThemeDark, store.Current())
	assert.Error(t, store.Set(ctx, Theme("sepia")))
}
