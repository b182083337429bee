// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePrincipal() session.Session {
	return session.Session{
		ID:          session.AuthoritativeID("42"),
		FirstName:   "Ali",
		LastName:    "Valiyev",
		PhoneNumber: "+998901234567",
		Role:        session.RoleUser,
		Token:       "tok-1",
	}
}

/*
TestStore_LoginSurvivesReload verifies that a fresh Open reconstructs the
session written by Login without any network call.
*/
func TestStore_LoginSurvivesReload(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()

	store, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)
	assert.Nil(t, store.Current())

	require.NoError(t, store.Login(ctx, samplePrincipal()))

	reloaded, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)

	current := reloaded.Current()
	require.NotNil(t, current)
	assert.True(t, current.IsAuthenticated)
	assert.Equal(t, "tok-1", current.Token)
	assert.Equal(t, *store.Current(), *current)

	other, err := session.Open(ctx, storage, "client-b", discardLogger())
	require.NoError(t, err)
	assert.Nil(t, other.Current())
}

/*
TestStore_LogoutThenReload verifies that nothing is reconstructible after logout.
*/
func TestStore_LogoutThenReload(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()

	store, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)
	require.NoError(t, store.Login(ctx, samplePrincipal()))
	require.NoError(t, store.Logout(ctx))
	assert.Nil(t, store.Current())

	reloaded, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)
	assert.Nil(t, reloaded.Current())
}

/*
TestStore_UpdateUser covers the merge path and the guest no-op.
*/
func TestStore_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("guest is a silent no-op", func(t *testing.T) {
		storage := kv.NewMemory()
		store, err := session.Open(ctx, storage, "client-a", discardLogger())
		require.NoError(t, err)

		name := "Bobur"
		require.NoError(t, store.UpdateUser(ctx, session.Patch{FirstName: &name}))
		assert.Nil(t, store.Current())

		_, found, err := storage.Get(ctx, "session-user:client-a")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("merges and persists", func(t *testing.T) {
		storage := kv.NewMemory()
		store, err := session.Open(ctx, storage, "client-a", discardLogger())
		require.NoError(t, err)
		require.NoError(t, store.Login(ctx, samplePrincipal()))

		address := "Tashkent, Chilonzor 7"
		require.NoError(t, store.UpdateUser(ctx, session.Patch{Address: &address}))

		current := store.Current()
		assert.Equal(t, address, current.Address)
		assert.Equal(t, "Ali", current.FirstName)

		reloaded, err := session.Open(ctx, storage, "client-a", discardLogger())
		require.NoError(t, err)
		assert.Equal(t, *current, *reloaded.Current())
	})
}

/*
TestStore_CorruptedPayload verifies a malformed persisted user is discarded
and the client starts as a guest.
*/
func TestStore_CorruptedPayload(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()

	require.NoError(t, storage.Set(ctx, "session-user:client-a", "{not json"))
	require.NoError(t, storage.Set(ctx, "session-token:client-a", "tok"))

	store, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)
	assert.Nil(t, store.Current())

	_, found, _ := storage.Get(ctx, "session-user:client-a")
	assert.False(t, found)
	_, found, _ = storage.Get(ctx, "session-token:client-a")
	assert.False(t, found)
}

/*
TestStore_MissingToken verifies both keys are required to restore a session.
*/
func TestStore_MissingToken(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()

	store, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)

	principal := samplePrincipal()
	principal.Token = ""
	require.NoError(t, store.Login(ctx, principal))

	reloaded, err := session.Open(ctx, storage, "client-a", discardLogger())
	require.NoError(t, err)
	assert.Nil(t, reloaded.Current())
}

func TestIDOrProvisional(t *testing.T) {
	assert.Equal(t, session.ID{Value: "7"}, session.IDOrProvisional("7"))

	provisional := session.IDOrProvisional("")
	assert.True(t, provisional.Provisional)
	assert.NotEmpty(t, provisional.Value)
	assert.NotEqual(t, provisional, session.IDOrProvisional(""))
}
