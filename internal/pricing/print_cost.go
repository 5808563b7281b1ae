package pricing

import (
	"fmt"

	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// PrintCost is the print side of a quote. PerShirt is the marginal ink cost
// per shirt across all enabled locations and excludes setup fees; Total
// includes them.
type PrintCost struct {
	PerShirt     decimal.Decimal
	SetupFees    decimal.Decimal
	TotalScreens int
	Total        decimal.Decimal
}

// printRateTable indexes print pricing rows by tier and color count for
// constant-time lookup while walking a print configuration.
type printRateTable map[string]*models.PrintPricing

func buildRateTable(rows []models.PrintPricing) printRateTable {
	table := make(printRateTable, len(rows))
	for i := range rows {
		table[rateKey(rows[i].TierID.String(), rows[i].NumColors)] = &rows[i]
	}
	return table
}

func rateKey(tierID string, numColors int) string {
	return fmt.Sprintf("%s/%d", tierID, numColors)
}

// CalculatePrintCost prices every enabled location of cfg at the given tier.
// Each location contributes its per-shirt ink cost plus one setup fee per
// screen (one screen per ink color). A missing pricing row for an enabled
// color count is a configuration gap, never approximated.
func CalculatePrintCost(tier *models.PricingTier, rows []models.PrintPricing, cfg types.PrintConfig, qty int) (*PrintCost, error) {
	if tier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricing tier is required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid print configuration")
	}

	table := buildRateTable(rows)
	cost := &PrintCost{
		PerShirt:  decimal.Zero,
		SetupFees: decimal.Zero,
	}
	for _, loc := range cfg.EnabledLocations() {
		spec := cfg[loc]
		row, ok := table[rateKey(tier.ID.String(), spec.NumColors)]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeConfigGap, fmt.Sprintf("no print pricing for tier %q at %d colors", tier.Name, spec.NumColors))
		}
		cost.PerShirt = cost.PerShirt.Add(row.CostPerShirt)
		cost.SetupFees = cost.SetupFees.Add(row.SetupFeePerScreen.Mul(decimal.NewFromInt(int64(spec.NumColors))))
		cost.TotalScreens += spec.NumColors
	}
	cost.Total = cost.PerShirt.Mul(decimal.NewFromInt(int64(qty))).Add(cost.SetupFees)
	return cost, nil
}
