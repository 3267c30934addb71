// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doatroca/troca/internal/platform/apperr"
	"github.com/doatroca/troca/internal/platform/constants"
	"github.com/doatroca/troca/internal/platform/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ApplySchema runs the embedded token-store migrations. Idempotent; call once
// before constructing a [PostgresStore].
func ApplySchema(dsn string, logger *slog.Logger) error {
	return migration.RunUp(dsn, migrationFiles, "migrations", logger)
}

// PostgresStore persists session state as fixed-name rows in a key-value
// table. Intended for headless deployments that already run PostgreSQL and
// want client state co-located with it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save upserts all three rows in a single statement so the persisted state is
// always complete or absent, never partial.
func (store *PostgresStore) Save(ctx context.Context, state State) error {
	const query = `
		INSERT INTO client_state (key, value, updated_at)
		VALUES ($1, $2, now()), ($3, $4, now()), ($5, $6, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	encodedProfile := ""
	if state.Profile != nil {
		raw, err := json.Marshal(state.Profile)
		if err != nil {
			return fmt.Errorf("session_postgres_store_encode_failed: %w", err)
		}
		encodedProfile = string(raw)
	}

	_, err := store.pool.Exec(ctx, query,
		constants.StateKeyAccessToken, state.AccessToken,
		constants.StateKeyRefreshToken, state.RefreshToken,
		constants.StateKeyProfile, encodedProfile,
	)
	if err != nil {
		return fmt.Errorf("session_postgres_store_save_failed: %w", err)
	}

	return nil
}

// Load reads the three fixed-name rows.
func (store *PostgresStore) Load(ctx context.Context) (*State, error) {
	const query = `SELECT key, value FROM client_state WHERE key = ANY($1)`

	keys := []string{
		constants.StateKeyAccessToken,
		constants.StateKeyRefreshToken,
		constants.StateKeyProfile,
	}

	rows, err := store.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("session_postgres_store_load_failed: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("session_postgres_store_scan_failed: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session_postgres_store_rows_failed: %w", err)
	}

	state := &State{
		AccessToken:  values[constants.StateKeyAccessToken],
		RefreshToken: values[constants.StateKeyRefreshToken],
	}
	if state.AccessToken == "" {
		return nil, apperr.NotFound("Session state")
	}

	if encoded := values[constants.StateKeyProfile]; encoded != "" {
		profile := &Profile{}
		if err := json.Unmarshal([]byte(encoded), profile); err == nil {
			state.Profile = profile
		}
	}

	return state, nil
}

// Clear deletes the three fixed-name rows.
func (store *PostgresStore) Clear(ctx context.Context) error {
	const query = `DELETE FROM client_state WHERE key = ANY($1)`

	keys := []string{
		constants.StateKeyAccessToken,
		constants.StateKeyRefreshToken,
		constants.StateKeyProfile,
	}

	if _, err := store.pool.Exec(ctx, query, keys); err != nil {
		return fmt.Errorf("session_postgres_store_clear_failed: %w", err)
	}
	return nil
}
