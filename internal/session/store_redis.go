// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/platform/constants"
)

// RedisStore persists session state as three fixed-name keys in Redis,
// namespaced under [constants.RedisPrefixState]. All three are written and
// deleted together so the store never holds a partial session.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed store. The client is accepted as the
// Cmdable interface so tests can substitute a mock.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func stateKeys() (access, refresh, profile string) {
	return constants.RedisPrefixState + constants.StateKeyAccessToken,
		constants.RedisPrefixState + constants.StateKeyRefreshToken,
		constants.RedisPrefixState + constants.StateKeyProfile
}

// Save writes all three keys in a single MSET.
func (store *RedisStore) Save(ctx context.Context, state State) error {
	accessKey, refreshKey, profileKey := stateKeys()

	encodedProfile := ""
	if state.Profile != nil {
		raw, err := json.Marshal(state.Profile)
		if err != nil {
			return fmt.Errorf("session_redis_store_encode_failed: %w", err)
		}
		encodedProfile = string(raw)
	}

	err := store.client.MSet(ctx,
		accessKey, state.AccessToken,
		refreshKey, state.RefreshToken,
		profileKey, encodedProfile,
	).Err()
	if err != nil {
		return fmt.Errorf("session_redis_store_save_failed: %w", err)
	}

	return nil
}

// Load reads all three keys in a single MGET.
//
// A missing or empty access token means no session is persisted, reported as
// [apperr.NotFound].
func (store *RedisStore) Load(ctx context.Context) (*State, error) {
	accessKey, refreshKey, profileKey := stateKeys()

	values, err := store.client.MGet(ctx, accessKey, refreshKey, profileKey).Result()
	if err != nil {
		return nil, fmt.Errorf("session_redis_store_load_failed: %w", err)
	}

	state := &State{
		AccessToken:  asString(values[0]),
		RefreshToken: asString(values[1]),
	}
	if state.AccessToken == "" {
		return nil, apperr.NotFound("Session state")
	}

	if encoded := asString(values[2]); encoded != "" {
		profile := &Profile{}
		if err := json.Unmarshal([]byte(encoded), profile); err == nil {
			state.Profile = profile
		}
	}

	return state, nil
}

// Clear deletes all three keys.
func (store *RedisStore) Clear(ctx context.Context) error {
	accessKey, refreshKey, profileKey := stateKeys()

	if err := store.client.Del(ctx, accessKey, refreshKey, profileKey).Err(); err != nil {
		return fmt.Errorf("session_redis_store_clear_failed: %w", err)
	}
	return nil
}

// asString converts an MGET result cell (string or nil) to a plain string.
func asString(value any) string {
	s, _ := value.(string)
	return s
}
