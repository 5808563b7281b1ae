package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/pkg/types"
)

// PendingOrder is the provisional record created at checkout start and
// consumed exactly once when payment confirms. The atomic delete of this row
// is the concurrency gate for order creation.
type PendingOrder struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentIntentID  string                 `gorm:"column:payment_intent_id;not null;uniqueIndex"`
	CustomerName     string                 `gorm:"column:customer_name;not null"`
	CustomerEmail    string                 `gorm:"column:customer_email;not null"`
	PrintConfig      types.PrintConfig      `gorm:"column:print_config;type:jsonb"`
	PricingBreakdown types.PricingBreakdown `gorm:"column:pricing_breakdown;type:jsonb;not null"`
	Subtotal         decimal.Decimal        `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountCode     *string                `gorm:"column:discount_code"`
	DiscountAmount   decimal.Decimal        `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	Total            decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	DepositAmount    decimal.Decimal        `gorm:"column:deposit_amount;type:numeric(12,2);not null"`
	BalanceDue       decimal.Decimal        `gorm:"column:balance_due;type:numeric(12,2);not null"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
}
