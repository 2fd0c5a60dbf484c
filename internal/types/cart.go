package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CartStatusOpen    = "open"
	CartStatusOrdered = "ordered"
)

type Cart struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status    string         `gorm:"column:status;not null;default:'open'" json:"status"`
	Subtotal  float64        `gorm:"column:subtotal;not null;default:0" json:"subtotal"`
	Total     float64        `gorm:"column:total;not null;default:0" json:"total"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Cart) TableName() string { return "cart" }

type CartItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CartID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"cart_id"`
	Cart         *Cart          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CartID;references:ID" json:"cart,omitempty"`
	SavedBuildID *uuid.UUID     `gorm:"type:uuid;index" json:"saved_build_id,omitempty"`
	SavedBuild   *SavedBuild    `gorm:"foreignKey:SavedBuildID;references:ID" json:"saved_build,omitempty"`
	Label        string         `gorm:"column:label;not null" json:"label"`
	Quantity     int            `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice    float64        `gorm:"column:unit_price;not null;default:0" json:"unit_price"`
	LineTotal    float64        `gorm:"column:line_total;not null;default:0" json:"line_total"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CartItem) TableName() string { return "cart_item" }
