package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Garment represents a blank apparel item sourced from a supplier catalog.
// BaseCost is the wholesale unit cost; the customer-facing price is derived
// at quote time from the quantity tier markup.
type Garment struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Brand           *string         `gorm:"column:brand"`
	StyleNumber     *string         `gorm:"column:style_number"`
	Description     *string         `gorm:"column:description"`
	BaseCost        decimal.Decimal `gorm:"column:base_cost;type:numeric(10,4);not null"`
	PricingTierID   uuid.UUID       `gorm:"column:pricing_tier_id;type:uuid;not null"`
	PricingTier     *PricingTier    `gorm:"foreignKey:PricingTierID"`
	AvailableColors pq.StringArray  `gorm:"column:available_colors;type:text[];not null;default:ARRAY[]::text[]"`
	SizeRange       pq.StringArray  `gorm:"column:size_range;type:text[];not null;default:ARRAY[]::text[]"`
	SupplierSKU     *string         `gorm:"column:supplier_sku"`
	ImageURL        *string         `gorm:"column:image_url"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}
