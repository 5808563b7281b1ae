package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingTier is a quantity band driving the garment markup. MaxQty nil means
// unbounded above; both bounds are inclusive.
type PricingTier struct {
	ID                      uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                    string          `gorm:"column:name;not null"`
	MinQty                  int             `gorm:"column:min_qty;not null"`
	MaxQty                  *int            `gorm:"column:max_qty"`
	GarmentMarkupPercentage decimal.Decimal `gorm:"column:garment_markup_percentage;type:numeric(6,3);not null"`
	CreatedAt               time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Contains reports whether qty falls inside the tier's band.
func (t PricingTier) Contains(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	return t.MaxQty == nil || qty <= *t.MaxQty
}
