package types

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Component categories match the builder slot types.
const (
	CategoryCPU         = "cpu"
	CategoryMotherboard = "motherboard"
	CategoryCase        = "case"
	CategoryPSU         = "psu"
	CategoryStorage     = "storage"
	CategoryMemory      = "memory"
	CategoryGPU         = "gpu"
	CategoryCooling     = "cooling"
	CategoryFan         = "fan"
	CategoryMonitor     = "monitor"
)

type Component struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Category  string            `gorm:"column:category;not null;index" json:"category"`
	Name      string            `gorm:"column:name;not null" json:"name"`
	Price     float64           `gorm:"column:price;not null;default:0" json:"price"`
	Discount  float64           `gorm:"column:discount;not null;default:0" json:"discount"`
	Specs     datatypes.JSONMap `gorm:"column:specs;type:jsonb" json:"specs"`
	Active    bool              `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (Component) TableName() string { return "component" }

// DiscountedPrice applies the component discount, rounded to 2 decimals.
func (c *Component) DiscountedPrice() float64 {
	price := c.Price * (1 - c.Discount/100)
	return math.Round(price*100) / 100
}
