package pricing

import (
	"fmt"
	"sort"

	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"go.uber.org/multierr"
)

// ResolveTier finds the pricing tier whose quantity band contains qty.
// Band bounds are inclusive on both ends. A quantity no tier covers is a
// catalog misconfiguration and surfaces as a configuration-gap error rather
// than snapping to the nearest band.
func ResolveTier(tiers []models.PricingTier, qty int) (*models.PricingTier, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	for i := range tiers {
		if tiers[i].Contains(qty) {
			return &tiers[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeConfigGap, fmt.Sprintf("no pricing tier covers quantity %d", qty))
}

// LowestTier returns the tier with the smallest minimum quantity. Campaign
// pricing always quotes from this tier regardless of committed volume.
func LowestTier(tiers []models.PricingTier) (*models.PricingTier, error) {
	if len(tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConfigGap, "no pricing tiers configured")
	}
	lowest := &tiers[0]
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinQty < lowest.MinQty {
			lowest = &tiers[i]
		}
	}
	return lowest, nil
}

// ValidateTierSet checks that the tiers form a contiguous, non-overlapping
// ladder: each bounded tier must have max_qty > min_qty, successive tiers
// must abut exactly, and only the final tier may be open-ended. All problems
// are reported together so an admin can fix the whole set in one pass.
func ValidateTierSet(tiers []models.PricingTier) error {
	if len(tiers) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one pricing tier is required")
	}

	sorted := make([]models.PricingTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinQty < sorted[j].MinQty })

	var errs error
	for i := range sorted {
		tier := sorted[i]
		if tier.MinQty <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("tier %q: min_qty must be positive", tier.Name))
		}
		if tier.MaxQty != nil && *tier.MaxQty <= tier.MinQty {
			errs = multierr.Append(errs, fmt.Errorf("tier %q: max_qty %d must exceed min_qty %d", tier.Name, *tier.MaxQty, tier.MinQty))
		}
		if tier.MaxQty == nil && i != len(sorted)-1 {
			errs = multierr.Append(errs, fmt.Errorf("tier %q: only the highest tier may be open-ended", tier.Name))
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MaxQty == nil {
			continue
		}
		switch {
		case tier.MinQty <= *prev.MaxQty:
			errs = multierr.Append(errs, fmt.Errorf("tier %q overlaps tier %q", tier.Name, prev.Name))
		case tier.MinQty > *prev.MaxQty+1:
			errs = multierr.Append(errs, fmt.Errorf("gap between tier %q and tier %q: quantities %d-%d are uncovered", prev.Name, tier.Name, *prev.MaxQty+1, tier.MinQty-1))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "pricing tier set invalid")
	}
	return nil
}
