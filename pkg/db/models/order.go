package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/pkg/enums"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

// Order is a confirmed customer order. PricingBreakdown is an owned,
// immutable snapshot copied from the pending order at creation time and is
// never recomputed afterward.
type Order struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      string                 `gorm:"column:order_number;not null;uniqueIndex"`
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
	Status           enums.OrderStatus      `gorm:"column:status;not null;default:'paid_deposit'"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
