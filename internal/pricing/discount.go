package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

// ApplyDiscount computes the amount a discount code takes off the given
// subtotal. Percentage discounts round to cents; fixed discounts are capped
// at the subtotal so totals never go negative. A code expires strictly
// before now, so a code expiring at this exact instant is still honored.
func ApplyDiscount(code *models.DiscountCode, subtotal decimal.Decimal, now time.Time) (*types.AppliedDiscount, error) {
	if code == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
	}
	if subtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must be non-negative")
	}
	if !code.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is inactive")
	}
	if code.ExpiresAt != nil && code.ExpiresAt.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code has expired")
	}

	var amount decimal.Decimal
	switch code.DiscountType {
	case enums.DiscountTypePercentage:
		amount = subtotal.Mul(code.DiscountValue).Div(oneHundred).Round(2)
	case enums.DiscountTypeFixed:
		amount = code.DiscountValue
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConfigGap, "unknown discount type")
	}

	return &types.AppliedDiscount{
		Code:           code.Code,
		DiscountType:   code.DiscountType,
		DiscountValue:  code.DiscountValue,
		DiscountAmount: amount,
	}, nil
}
