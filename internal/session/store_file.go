// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doatroca/troca/internal/platform/apperr"
)

// FileStore persists session state as a JSON file on disk. It is the CLI
// analog of the browser's persistent storage: survives process restarts,
// cleared in full on logout.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path. The parent
// directory is created lazily on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the state with owner-only permissions. The write goes through
// a temp file and rename so a crash mid-write never leaves a torn state file.
func (store *FileStore) Save(_ context.Context, state State) error {
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("session_file_store_encode_failed: %w", err)
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session_file_store_mkdir_failed: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session_file_store_tmp_failed: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session_file_store_write_failed: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session_file_store_chmod_failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session_file_store_close_failed: %w", err)
	}

	if err := os.Rename(tmpName, store.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session_file_store_rename_failed: %w", err)
	}

	return nil
}

// Load reads and decodes the state file.
//
// A corrupt state file is reported as [apperr.NotFound] rather than a decode
// error: the manager's reaction to both is identical (clear and force
// re-authentication), and a broken file must never wedge the client.
func (store *FileStore) Load(_ context.Context) (*State, error) {
	encoded, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("Session state")
		}
		return nil, fmt.Errorf("session_file_store_read_failed: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(encoded, state); err != nil {
		return nil, apperr.NotFound("Session state")
	}
	if state.AccessToken == "" {
		return nil, apperr.NotFound("Session state")
	}

	return state, nil
}

// Clear removes the state file. A missing file is fine.
func (store *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session_file_store_clear_failed: %w", err)
	}
	return nil
}
