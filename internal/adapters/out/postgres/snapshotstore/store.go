// Package snapshotstore implements ports.SnapshotStore on PostgreSQL. The
// whole system state is stored as one JSONB payload in a single-row table,
// replaced atomically on every save.
package snapshotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodorder/internal/core/ports"
)

// snapshotRowID is the primary key of the only row of the snapshots table.
const snapshotRowID = 1

var _ ports.SnapshotStore = (*Store)(nil)

// Store is a PostgreSQL-backed ports.SnapshotStore using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on the given database handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db handle is required")
	}
	return &Store{db: db}, nil
}

// Migrate creates or updates the snapshots table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&SnapshotDTO{})
}

// Load reads the latest snapshot. An empty table means no snapshot was ever
// saved and returns nil without error.
func (s *Store) Load(ctx context.Context) (*ports.Snapshot, error) {
	var dto SnapshotDTO
	err := s.db.WithContext(ctx).First(&dto, "id = ?", snapshotRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot row: %w", err)
	}

	var snapshot ports.Snapshot
	if err = json.Unmarshal(dto.Payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot payload: %w", err)
	}
	return &snapshot, nil
}

// Save upserts the single snapshot row.
func (s *Store) Save(ctx context.Context, snapshot *ports.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot payload: %w", err)
	}

	dto := SnapshotDTO{ID: snapshotRowID, Payload: payload}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&dto).Error
	if err != nil {
		return fmt.Errorf("save snapshot row: %w", err)
	}
	return nil
}
