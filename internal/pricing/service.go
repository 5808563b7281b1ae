package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/metrics"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

// Snapshot bundles everything the engine needs to price an order: the full
// tier ladder, the print rate rows, and the effective deposit percentage.
type Snapshot struct {
	Tiers          []models.PricingTier
	PrintPricing   []models.PrintPricing
	DepositPercent decimal.Decimal
}

type snapshotLoader interface {
	PricingSnapshot(ctx context.Context) (*Snapshot, error)
}

type garmentLoader interface {
	GetGarment(ctx context.Context, id uuid.UUID) (*models.Garment, error)
	GetGarments(ctx context.Context, ids []uuid.UUID) ([]models.Garment, error)
}

// QuoteInput is a single-garment quote request.
type QuoteInput struct {
	GarmentID   uuid.UUID
	Quantity    int
	PrintConfig types.PrintConfig
}

// GarmentQuantity is one line of a multi-garment quote request.
type GarmentQuantity struct {
	GarmentID uuid.UUID
	Quantity  int
}

// MultiQuoteInput quotes several garments sharing one print configuration.
// The combined quantity selects the tier applied to every line.
type MultiQuoteInput struct {
	Items       []GarmentQuantity
	PrintConfig types.PrintConfig
}

// Service exposes quoting operations over the live catalog.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*types.QuoteBreakdown, error)
	MultiGarmentQuote(ctx context.Context, input MultiQuoteInput) (*types.MultiGarmentQuote, error)
	CampaignPrices(ctx context.Context, cfg types.PrintConfig, garmentIDs []uuid.UUID) (*types.CampaignPrices, error)
}

type service struct {
	garments  garmentLoader
	snapshots snapshotLoader
	cfg       config.PricingConfig
	metrics   *metrics.QuoteMetrics
}

// NewService builds the pricing service backed by the provided catalog.
func NewService(garments garmentLoader, snapshots snapshotLoader, cfg config.PricingConfig, m *metrics.QuoteMetrics) (Service, error) {
	if garments == nil {
		return nil, fmt.Errorf("garment loader required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot loader required")
	}
	if cfg.MinimumOrderQuantity <= 0 {
		return nil, fmt.Errorf("minimum order quantity must be positive")
	}
	return &service{
		garments:  garments,
		snapshots: snapshots,
		cfg:       cfg,
		metrics:   m,
	}, nil
}

// Quote prices one garment with its print configuration and splits payment.
func (s *service) Quote(ctx context.Context, input QuoteInput) (_ *types.QuoteBreakdown, err error) {
	defer s.observe("single", time.Now(), &err)

	if input.GarmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "garment id is required")
	}
	if input.Quantity < s.cfg.MinimumOrderQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("minimum order quantity is %d", s.cfg.MinimumOrderQuantity))
	}

	garment, err := s.garments.GetGarment(ctx, input.GarmentID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.PricingSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	tier, err := ResolveTier(snap.Tiers, input.Quantity)
	if err != nil {
		return nil, err
	}
	garmentCost, err := CalculateGarmentCost(garment, tier, input.Quantity)
	if err != nil {
		return nil, err
	}
	printCost, err := CalculatePrintCost(tier, snap.PrintPricing, input.PrintConfig, input.Quantity)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(int64(input.Quantity))
	total := garmentCost.Total.Add(printCost.Total)
	deposit, balance := SplitDeposit(total, snap.DepositPercent)

	return &types.QuoteBreakdown{
		GarmentID:           garment.ID,
		Quantity:            input.Quantity,
		GarmentCost:         garmentCost.Total,
		GarmentCostPerShirt: garmentCost.PerShirt,
		PrintCost:           printCost.Total,
		PrintCostPerShirt:   printCost.PerShirt,
		SetupFees:           printCost.SetupFees,
		TotalScreens:        printCost.TotalScreens,
		Subtotal:            total,
		Total:               total,
		PerShirtPrice:       total.Div(qty),
		DepositAmount:       deposit,
		BalanceDue:          balance,
	}, nil
}

// MultiGarmentQuote prices several garments under one print run. Every line
// earns the tier selected by the combined quantity, and setup fees are
// charged once for the shared screens.
func (s *service) MultiGarmentQuote(ctx context.Context, input MultiQuoteInput) (_ *types.MultiGarmentQuote, err error) {
	defer s.observe("multi", time.Now(), &err)

	lines := make([]GarmentQuantity, 0, len(input.Items))
	totalQty := 0
	for _, item := range input.Items {
		if item.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantities must be non-negative")
		}
		if item.Quantity == 0 {
			continue
		}
		if item.GarmentID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "garment id is required")
		}
		lines = append(lines, item)
		totalQty += item.Quantity
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one garment with a positive quantity is required")
	}
	if totalQty < s.cfg.MinimumOrderQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("minimum combined order quantity is %d", s.cfg.MinimumOrderQuantity))
	}

	snap, err := s.snapshots.PricingSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	tier, err := ResolveTier(snap.Tiers, totalQty)
	if err != nil {
		return nil, err
	}

	garmentTotal := decimal.Zero
	out := make([]types.GarmentLine, 0, len(lines))
	for _, line := range lines {
		garment, err := s.garments.GetGarment(ctx, line.GarmentID)
		if err != nil {
			return nil, err
		}
		cost, err := CalculateGarmentCost(garment, tier, line.Quantity)
		if err != nil {
			return nil, err
		}
		garmentTotal = garmentTotal.Add(cost.Total)
		out = append(out, types.GarmentLine{
			GarmentID:    garment.ID,
			Name:         garment.Name,
			Quantity:     line.Quantity,
			CostPerShirt: cost.PerShirt,
			TotalCost:    cost.Total,
		})
	}

	printCost, err := CalculatePrintCost(tier, snap.PrintPricing, input.PrintConfig, totalQty)
	if err != nil {
		return nil, err
	}

	total := garmentTotal.Add(printCost.Total)
	deposit, balance := SplitDeposit(total, snap.DepositPercent)

	return &types.MultiGarmentQuote{
		Garments:          out,
		TotalQuantity:     totalQty,
		GarmentCost:       garmentTotal,
		PrintCost:         printCost.Total.Sub(printCost.SetupFees),
		PrintCostPerShirt: printCost.PerShirt,
		SetupFees:         printCost.SetupFees,
		TotalScreens:      printCost.TotalScreens,
		Subtotal:          total,
		Total:             total,
		DepositAmount:     deposit,
		BalanceDue:        balance,
	}, nil
}

// CampaignPrices computes conservative per-unit sticker prices for a group
// campaign: every garment is priced at the lowest volume tier with setup fees
// excluded, so the shown price can only improve as commitments grow. Garments
// that no longer exist are reported rather than failing the whole campaign.
func (s *service) CampaignPrices(ctx context.Context, cfg types.PrintConfig, garmentIDs []uuid.UUID) (_ *types.CampaignPrices, err error) {
	defer s.observe("campaign", time.Now(), &err)

	if len(garmentIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one garment id is required")
	}

	snap, err := s.snapshots.PricingSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	tier, err := LowestTier(snap.Tiers)
	if err != nil {
		return nil, err
	}
	// Per-shirt print cost at the floor tier; one unit is enough because the
	// marginal rate does not depend on quantity.
	printCost, err := CalculatePrintCost(tier, snap.PrintPricing, cfg, 1)
	if err != nil {
		return nil, err
	}

	garments, err := s.garments.GetGarments(ctx, garmentIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]*models.Garment, len(garments))
	for i := range garments {
		found[garments[i].ID] = &garments[i]
	}

	result := &types.CampaignPrices{Prices: make(map[uuid.UUID]decimal.Decimal, len(garmentIDs))}
	for _, id := range garmentIDs {
		garment, ok := found[id]
		if !ok {
			result.MissingGarments = append(result.MissingGarments, id)
			continue
		}
		cost, err := CalculateGarmentCost(garment, tier, 1)
		if err != nil {
			return nil, err
		}
		result.Prices[id] = cost.PerShirt.Add(printCost.PerShirt)
	}
	return result, nil
}

func (s *service) observe(kind string, start time.Time, err *error) {
	s.metrics.IncRequest(kind)
	s.metrics.ObserveDuration(kind, time.Since(start))
	if err != nil && *err != nil {
		s.metrics.IncFailure(kind)
	}
}
