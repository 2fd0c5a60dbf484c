package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rule kinds understood by the builder evaluator.
const (
	RuleKindMaxQuantity         = "max_quantity"
	RuleKindSocketCompatibility = "socket_compatibility"
	RuleKindFormFactor          = "form_factor"
	RuleKindPowerRequirement    = "power_requirement"
	RuleKindMemoryType          = "memory_type"
	RuleKindStorageInterface    = "storage_interface"
	RuleKindCustom              = "custom"
)

type CompatibilityRule struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      string         `gorm:"column:kind;not null;index" json:"kind"`
	Category  string         `gorm:"column:category" json:"category,omitempty"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Config    datatypes.JSON `gorm:"column:config;type:jsonb" json:"config"`
	Message   string         `gorm:"column:message;not null" json:"message"`
	Active    bool           `gorm:"column:active;not null;default:true;index" json:"active"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CompatibilityRule) TableName() string { return "compatibility_rule" }
