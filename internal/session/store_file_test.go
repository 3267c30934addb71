// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/session"
)

func newFileStore(t *testing.T) (*session.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".troca", "session.json")
	return session.NewFileStore(path), path
}

/*
TestFileStore_RoundTrip saves, loads and clears a full state.
*/
func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	state := session.State{
		AccessToken:  "tok-abc",
		RefreshToken: "tok-ref",
		Profile:      &session.Profile{ID: "1", Email: "demo@demo.com", City: "Santa Rita do Sapucaí"},
	}
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.AccessToken, loaded.AccessToken)
	assert.Equal(t, state.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, "demo@demo.com", loaded.Profile.Email)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.True(t, apperr.IsNotFound(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

/*
TestFileStore_MissingFile reports an absent file as NotFound.
*/
func TestFileStore_MissingFile(t *testing.T) {
	store, _ := newFileStore(t)
	_, err := store.Load(context.Background())
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestFileStore_CorruptFile: a torn or hand-edited state file must read as "no
session", never as an error that wedges startup.
*/
func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	store, path := newFileStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token": "tok`), 0o600))

	_, err := store.Load(ctx)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestFileStore_EmptyAccessToken: a file without an access token is not a
session.
*/
func TestFileStore_EmptyAccessToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileStore(t)

	require.NoError(t, store.Save(ctx, session.State{AccessToken: ""}))
	_, err := store.Load(ctx)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestFileStore_ClearIdempotent: clearing an absent file succeeds.
*/
func TestFileStore_ClearIdempotent(t *testing.T) {
	store, _ := newFileStore(t)
	assert.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, store.Clear(context.Background()))
}

/*
TestFileStore_Permissions verifies the owner-only file mode.
*/
func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	ctx := context.Background()
	store, path := newFileStore(t)
	require.NoError(t, store.Save(ctx, session.State{AccessToken: "tok"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
