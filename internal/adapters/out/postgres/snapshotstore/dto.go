package snapshotstore

import "time"

// SnapshotDTO is the database model for the persisted system snapshot. The
// table holds exactly one row; every save overwrites it.
type SnapshotDTO struct {
	ID        int    `gorm:"primaryKey"`
	Payload   []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (SnapshotDTO) TableName() string {
	return "snapshots"
}
