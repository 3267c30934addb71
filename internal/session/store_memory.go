// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session

import (
	"context"
	"sync"

	"github.com/doatroca/troca/internal/platform/apperr"
)

// MemoryStore holds session state in process memory only. Used by tests and
// by runs that opt out of persistence.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores a copy of the state.
func (store *MemoryStore) Save(_ context.Context, state State) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	saved := state
	store.state = &saved
	return nil
}

// Load returns the stored state, or [apperr.NotFound] when empty.
func (store *MemoryStore) Load(_ context.Context) (*State, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state == nil {
		return nil, apperr.NotFound("Session state")
	}
	loaded := *store.state
	return &loaded, nil
}

// Clear drops the stored state.
func (store *MemoryStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state = nil
	return nil
}
