package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrintPricing is one (quantity tier, ink color count) screen-print price row.
// NumColors is ink colors per location, bounded 1..4.
type PrintPricing struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TierID            uuid.UUID       `gorm:"column:tier_id;type:uuid;not null;uniqueIndex:idx_print_pricing_tier_colors,priority:1"`
	Tier              *PricingTier    `gorm:"foreignKey:TierID"`
	NumColors         int             `gorm:"column:num_colors;not null;uniqueIndex:idx_print_pricing_tier_colors,priority:2"`
	CostPerShirt      decimal.Decimal `gorm:"column:cost_per_shirt;type:numeric(10,4);not null"`
	SetupFeePerScreen decimal.Decimal `gorm:"column:setup_fee_per_screen;type:numeric(10,2);not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
