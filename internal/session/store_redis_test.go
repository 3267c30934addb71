// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/session"
)

const (
	accessKey  = "troca:state:access_token"
	refreshKey = "troca:state:refresh_token"
	profileKey = "troca:state:profile"
)

/*
TestRedisStore_Save verifies that all three keys are written in one MSET.
*/
func TestRedisStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := session.NewRedisStore(db)

	profile := &session.Profile{ID: "1", Email: "demo@demo.com"}
	encoded, err := json.Marshal(profile)
	require.NoError(t, err)

	mock.ExpectMSet(
		accessKey, "tok-abc",
		refreshKey, "tok-ref",
		profileKey, string(encoded),
	).SetVal("OK")

	err = store.Save(context.Background(), session.State{
		AccessToken:  "tok-abc",
		RefreshToken: "tok-ref",
		Profile:      profile,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestRedisStore_Load verifies the MGET path, including the missing-session
case.
*/
func TestRedisStore_Load(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := session.NewRedisStore(db)

	mock.ExpectMGet(accessKey, refreshKey, profileKey).
		SetVal([]interface{}{"tok-abc", "tok-ref", `{"id": "1", "email": "demo@demo.com"}`})

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", state.AccessToken)
	assert.Equal(t, "tok-ref", state.RefreshToken)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "demo@demo.com", state.Profile.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestRedisStore_Load_Empty: all-nil MGET results mean no session.
*/
func TestRedisStore_Load_Empty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := session.NewRedisStore(db)

	mock.ExpectMGet(accessKey, refreshKey, profileKey).
		SetVal([]interface{}{nil, nil, nil})

	_, err := store.Load(context.Background())
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestRedisStore_Clear verifies all three keys are deleted together.
*/
func TestRedisStore_Clear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := session.NewRedisStore(db)

	mock.ExpectDel(accessKey, refreshKey, profileKey).SetVal(3)

	require.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
