package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ComponentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"component_id"`
	Component   *Component     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ComponentID;references:ID" json:"component,omitempty"`
	AuthorName  string         `gorm:"column:author_name;not null" json:"author_name"`
	Rating      int            `gorm:"column:rating;not null" json:"rating"`
	Body        string         `gorm:"column:body" json:"body,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Review) TableName() string { return "review" }
