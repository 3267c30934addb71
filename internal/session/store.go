// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session

import (
	"context"
)

// Store defines the persistence contract for session state.
//
// # Review Process
//
// This interface is placed in a separate file from session.go so entity
// changes and storage-contract changes can be reviewed independently.
//
// # Implementations
//
//   - [FileStore]: JSON state file on disk (default for the CLI).
//   - [MemoryStore]: process-local, for tests and --no-persist runs.
//   - [RedisStore]: shared Redis keys, for headless deployments.
//   - [PostgresStore]: key-value table in PostgreSQL.
type Store interface {
	// Save persists the full state atomically, replacing any previous state.
	Save(ctx context.Context, state State) error

	// Load returns the persisted state.
	//
	// Returns [apperr.NotFound] when no state has been saved (or it was
	// cleared); any other error means the backing store misbehaved.
	Load(ctx context.Context) (*State, error)

	// Clear removes all persisted state. Clearing an already-empty store is
	// not an error; Clear is idempotent.
	Clear(ctx context.Context) error
}
