package pricing

import (
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// GarmentCost is the garment side of a quote: the marked-up per-shirt price
// and the line total for the ordered quantity. Values carry full decimal
// precision; rounding happens only at the payment split.
type GarmentCost struct {
	PerShirt decimal.Decimal
	Total    decimal.Decimal
}

// CalculateGarmentCost applies the tier's markup percentage to the garment's
// base cost and extends it across qty shirts.
func CalculateGarmentCost(garment *models.Garment, tier *models.PricingTier, qty int) (*GarmentCost, error) {
	if garment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "garment is required")
	}
	if tier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricing tier is required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	perShirt := garment.BaseCost.Mul(oneHundred.Add(tier.GarmentMarkupPercentage)).Div(oneHundred)
	return &GarmentCost{
		PerShirt: perShirt,
		Total:    perShirt.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}
