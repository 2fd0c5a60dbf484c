package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusDone      = "done"
)

// Booking is a service appointment (repair, consultation, assembly).
type Booking struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     *uuid.UUID     `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	ContactName string         `gorm:"column:contact_name;not null" json:"contact_name"`
	Phone       string         `gorm:"column:phone;not null" json:"phone"`
	ServiceType string         `gorm:"column:service_type;not null" json:"service_type"`
	ScheduledAt time.Time      `gorm:"column:scheduled_at;not null" json:"scheduled_at"`
	Status      string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	Notes       string         `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Booking) TableName() string { return "booking" }
