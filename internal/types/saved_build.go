package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SavedBuild is an immutable snapshot of a builder configuration and its
// price at save time. There is deliberately no update or delete path.
type SavedBuild struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       *uuid.UUID     `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Configuration datatypes.JSON `gorm:"column:configuration;type:jsonb;not null" json:"configuration"`
	Total         float64        `gorm:"column:total;not null;default:0" json:"total"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
}

func (SavedBuild) TableName() string { return "saved_build" }
