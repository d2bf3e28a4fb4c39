// Package filestore persists the system snapshot as a single JSON file on
// local disk. Writes go through a uniquely named temporary file in the same
// directory followed by a rename, so a crash mid-write never corrupts the
// previous snapshot.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"foodorder/internal/core/ports"
	"foodorder/internal/pkg/errs"
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store is a file-backed ports.SnapshotStore.
type Store struct {
	path string
}

// New creates a Store writing to the given file path. The file does not have
// to exist yet.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errs.NewValueIsRequiredError("snapshot path")
	}
	return &Store{path: path}, nil
}

// Load reads the latest snapshot. A missing file means no snapshot was ever
// saved and returns nil without error.
func (s *Store) Load(_ context.Context) (*ports.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snapshot ports.Snapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}
	return &snapshot, nil
}

// Save atomically replaces the snapshot file.
func (s *Store) Save(_ context.Context, snapshot *ports.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString())
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}
