package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/pkg/enums"
)

// QuoteBreakdown is the single-garment quote response. All amounts keep full
// precision except DepositAmount, which is rounded to cents; BalanceDue is
// derived so that deposit + balance equals Total exactly.
type QuoteBreakdown struct {
	GarmentID           uuid.UUID       `json:"garment_id"`
	Quantity            int             `json:"quantity"`
	GarmentCost         decimal.Decimal `json:"garment_cost"`
	GarmentCostPerShirt decimal.Decimal `json:"garment_cost_per_shirt"`
	PrintCost           decimal.Decimal `json:"print_cost"`
	PrintCostPerShirt   decimal.Decimal `json:"print_cost_per_shirt"`
	SetupFees           decimal.Decimal `json:"setup_fees"`
	TotalScreens        int             `json:"total_screens"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Total               decimal.Decimal `json:"total"`
	PerShirtPrice       decimal.Decimal `json:"per_shirt_price"`
	DepositAmount       decimal.Decimal `json:"deposit_amount"`
	BalanceDue          decimal.Decimal `json:"balance_due"`
}

// GarmentLine is one garment's share of a multi-garment quote. CostPerShirt
// reflects the tier earned by the combined order quantity, not the line's own.
type GarmentLine struct {
	GarmentID    uuid.UUID       `json:"garment_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	CostPerShirt decimal.Decimal `json:"cost_per_shirt"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// MultiGarmentQuote aggregates several garments sharing one print
// configuration. PrintCost is reported net of setup fees; SetupFees and
// TotalScreens are carried separately and are already included in Total.
type MultiGarmentQuote struct {
	Garments          []GarmentLine   `json:"garments"`
	TotalQuantity     int             `json:"total_quantity"`
	GarmentCost       decimal.Decimal `json:"garment_cost"`
	PrintCost         decimal.Decimal `json:"print_cost"`
	PrintCostPerShirt decimal.Decimal `json:"print_cost_per_shirt"`
	SetupFees         decimal.Decimal `json:"setup_fees"`
	TotalScreens      int             `json:"total_screens"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Total             decimal.Decimal `json:"total"`
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	BalanceDue        decimal.Decimal `json:"balance_due"`
}

// CampaignPrices carries conservative per-unit sticker prices for garments in
// a group campaign, priced at the lowest volume tier with no setup fees.
type CampaignPrices struct {
	Prices          map[uuid.UUID]decimal.Decimal `json:"prices"`
	MissingGarments []uuid.UUID                   `json:"missing_garments"`
}

// AppliedDiscount is the computed result of validating a discount code
// against a subtotal. Amount never exceeds the subtotal.
type AppliedDiscount struct {
	Code           string             `json:"code"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
}
