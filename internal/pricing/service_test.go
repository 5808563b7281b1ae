package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type stubCatalog struct {
	garments map[uuid.UUID]*models.Garment
	snapshot *Snapshot
	snapErr  error
}

func (s *stubCatalog) GetGarment(_ context.Context, id uuid.UUID) (*models.Garment, error) {
	if g, ok := s.garments[id]; ok {
		return g, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "garment not found")
}

func (s *stubCatalog) GetGarments(_ context.Context, ids []uuid.UUID) ([]models.Garment, error) {
	var out []models.Garment
	for _, id := range ids {
		if g, ok := s.garments[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *stubCatalog) PricingSnapshot(context.Context) (*Snapshot, error) {
	if s.snapErr != nil {
		return nil, s.snapErr
	}
	return s.snapshot, nil
}

func testCatalog() (*stubCatalog, uuid.UUID) {
	tiers := ladder()
	var rows []models.PrintPricing
	costs := map[string]decimal.Decimal{"24-47": decimal.NewFromInt(3), "48-99": decimal.RequireFromString("2.50"), "100+": decimal.NewFromInt(2)}
	for _, tier := range tiers {
		for colors := 1; colors <= 4; colors++ {
			rows = append(rows, models.PrintPricing{
				TierID:            tier.ID,
				NumColors:         colors,
				CostPerShirt:      costs[tier.Name].Add(decimal.NewFromInt(int64(colors - 1))),
				SetupFeePerScreen: decimal.NewFromInt(25),
			})
		}
	}
	garmentID := uuid.New()
	return &stubCatalog{
		garments: map[uuid.UUID]*models.Garment{
			garmentID: {ID: garmentID, Name: "Heavy Tee", BaseCost: decimal.NewFromInt(10), Active: true},
		},
		snapshot: &Snapshot{
			Tiers:          tiers,
			PrintPricing:   rows,
			DepositPercent: decimal.NewFromInt(50),
		},
	}, garmentID
}

func newTestService(t *testing.T, catalog *stubCatalog) Service {
	t.Helper()
	svc, err := NewService(catalog, catalog, config.PricingConfig{
		DepositPercent:        50,
		MinimumOrderQuantity:  24,
		DiscountIncludesSetup: true,
	}, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func frontPrint(colors int) types.PrintConfig {
	return types.PrintConfig{
		enums.PrintLocationFront: {Enabled: true, NumColors: colors},
	}
}

func TestQuoteSingleGarment(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	svc := newTestService(t, catalog)

	// 30 shirts at $10 base with 60% markup front 2-color: garments
	// 30 * 16 = 480, print 30 * 4 = 120 plus 50 setup, total 650.
	got, err := svc.Quote(context.Background(), QuoteInput{
		GarmentID:   garmentID,
		Quantity:    30,
		PrintConfig: frontPrint(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := map[string][2]decimal.Decimal{
		"garment_cost":    {got.GarmentCost, decimal.NewFromInt(480)},
		"garment_per":     {got.GarmentCostPerShirt, decimal.NewFromInt(16)},
		"print_cost":      {got.PrintCost, decimal.NewFromInt(170)},
		"print_per_shirt": {got.PrintCostPerShirt, decimal.NewFromInt(4)},
		"setup_fees":      {got.SetupFees, decimal.NewFromInt(50)},
		"subtotal":        {got.Subtotal, decimal.NewFromInt(650)},
		"total":           {got.Total, decimal.NewFromInt(650)},
		"deposit":         {got.DepositAmount, decimal.NewFromInt(325)},
		"balance":         {got.BalanceDue, decimal.NewFromInt(325)},
	}
	for name, pair := range expect {
		if !pair[0].Equal(pair[1]) {
			t.Fatalf("%s: expected %s, got %s", name, pair[1], pair[0])
		}
	}
	if got.TotalScreens != 2 {
		t.Fatalf("expected 2 screens, got %d", got.TotalScreens)
	}
	if !got.PerShirtPrice.Mul(decimal.NewFromInt(30)).Round(6).Equal(decimal.NewFromInt(650)) {
		t.Fatalf("per shirt price inconsistent: %s", got.PerShirtPrice)
	}
}

func TestQuoteThirtyShirtScenario(t *testing.T) {
	t.Parallel()

	tier := models.PricingTier{ID: uuid.New(), Name: "24-47", MinQty: 24, MaxQty: intPtr(47), GarmentMarkupPercentage: decimal.NewFromInt(50)}
	garmentID := uuid.New()
	catalog := &stubCatalog{
		garments: map[uuid.UUID]*models.Garment{
			garmentID: {ID: garmentID, Name: "Classic Tee", BaseCost: decimal.NewFromInt(10), Active: true},
		},
		snapshot: &Snapshot{
			Tiers: []models.PricingTier{tier},
			PrintPricing: []models.PrintPricing{
				{TierID: tier.ID, NumColors: 2, CostPerShirt: decimal.NewFromInt(3), SetupFeePerScreen: decimal.NewFromInt(25)},
			},
			DepositPercent: decimal.NewFromInt(50),
		},
	}
	svc := newTestService(t, catalog)

	got, err := svc.Quote(context.Background(), QuoteInput{
		GarmentID:   garmentID,
		Quantity:    30,
		PrintConfig: frontPrint(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Subtotal.Equal(decimal.NewFromInt(590)) {
		t.Fatalf("expected subtotal 590, got %s", got.Subtotal)
	}
	if !got.DepositAmount.Equal(decimal.RequireFromString("295")) || !got.BalanceDue.Equal(decimal.RequireFromString("295")) {
		t.Fatalf("expected 295/295 split, got %s/%s", got.DepositAmount, got.BalanceDue)
	}
}

func TestQuoteDepositBalanceSumExactly(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	catalog.snapshot.DepositPercent = decimal.NewFromInt(33)
	svc := newTestService(t, catalog)

	// Total 538 at 33% does not split evenly: deposit 177.54, balance 360.46.
	got, err := svc.Quote(context.Background(), QuoteInput{
		GarmentID:   garmentID,
		Quantity:    27,
		PrintConfig: frontPrint(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.DepositAmount.Add(got.BalanceDue).Equal(got.Total) {
		t.Fatalf("deposit %s + balance %s != total %s", got.DepositAmount, got.BalanceDue, got.Total)
	}
	if got.DepositAmount.Exponent() < -2 {
		t.Fatalf("deposit not rounded to cents: %s", got.DepositAmount)
	}
}

func TestQuoteBelowMinimumQuantity(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	svc := newTestService(t, catalog)

	_, err := svc.Quote(context.Background(), QuoteInput{
		GarmentID:   garmentID,
		Quantity:    23,
		PrintConfig: frontPrint(1),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuoteUnknownGarment(t *testing.T) {
	t.Parallel()

	catalog, _ := testCatalog()
	svc := newTestService(t, catalog)

	_, err := svc.Quote(context.Background(), QuoteInput{
		GarmentID:   uuid.New(),
		Quantity:    30,
		PrintConfig: frontPrint(1),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuoteMissingPrintPricingRow(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	// Drop the 3-color rows to simulate an incomplete rate card.
	var rows []models.PrintPricing
	for _, row := range catalog.snapshot.PrintPricing {
		if row.NumColors != 3 {
			rows = append(rows, row)
		}
	}
	catalog.snapshot.PrintPricing = rows
	svc := newTestService(t, catalog)

	_, err := svc.Quote(context.Background(), QuoteInput{
		GarmentID:   garmentID,
		Quantity:    30,
		PrintConfig: frontPrint(3),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConfigGap {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMultiGarmentQuoteSharesCombinedTier(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	secondID := uuid.New()
	catalog.garments[secondID] = &models.Garment{ID: secondID, Name: "Crew Neck", BaseCost: decimal.NewFromInt(8), Active: true}
	svc := newTestService(t, catalog)

	// 30 + 20 = 50 shirts lands in the 48-99 tier (50% markup) even though
	// neither line reaches it alone.
	got, err := svc.MultiGarmentQuote(context.Background(), MultiQuoteInput{
		Items: []GarmentQuantity{
			{GarmentID: garmentID, Quantity: 30},
			{GarmentID: secondID, Quantity: 20},
		},
		PrintConfig: frontPrint(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalQuantity != 50 {
		t.Fatalf("expected combined quantity 50, got %d", got.TotalQuantity)
	}
	if len(got.Garments) != 2 {
		t.Fatalf("expected 2 garment lines, got %d", len(got.Garments))
	}
	// $10 base at 50% markup.
	if !got.Garments[0].CostPerShirt.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected first line at 15 per shirt, got %s", got.Garments[0].CostPerShirt)
	}
	// $8 base at 50% markup.
	if !got.Garments[1].CostPerShirt.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("expected second line at 12 per shirt, got %s", got.Garments[1].CostPerShirt)
	}
	// Print: 2-color at the 48-99 tier is 3.50/shirt, setup 2 * 25 once.
	if !got.PrintCost.Equal(decimal.RequireFromString("175")) {
		t.Fatalf("expected print cost 175 net of setup, got %s", got.PrintCost)
	}
	if !got.SetupFees.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected setup fees 50, got %s", got.SetupFees)
	}
	// 450 + 240 garments + 175 print + 50 setup.
	if !got.Total.Equal(decimal.NewFromInt(915)) {
		t.Fatalf("expected total 915, got %s", got.Total)
	}
	if !got.DepositAmount.Add(got.BalanceDue).Equal(got.Total) {
		t.Fatalf("deposit and balance do not sum to total")
	}
}

func TestMultiGarmentQuoteSkipsZeroQuantities(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	svc := newTestService(t, catalog)

	got, err := svc.MultiGarmentQuote(context.Background(), MultiQuoteInput{
		Items: []GarmentQuantity{
			{GarmentID: garmentID, Quantity: 30},
			{GarmentID: uuid.New(), Quantity: 0},
		},
		PrintConfig: frontPrint(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Garments) != 1 {
		t.Fatalf("expected zero-quantity line to be dropped, got %d lines", len(got.Garments))
	}
}

func TestMultiGarmentQuoteBelowCombinedMinimum(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	svc := newTestService(t, catalog)

	_, err := svc.MultiGarmentQuote(context.Background(), MultiQuoteInput{
		Items:       []GarmentQuantity{{GarmentID: garmentID, Quantity: 10}},
		PrintConfig: frontPrint(1),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCampaignPricesUseLowestTierWithoutSetup(t *testing.T) {
	t.Parallel()

	catalog, garmentID := testCatalog()
	svc := newTestService(t, catalog)

	missing := uuid.New()
	got, err := svc.CampaignPrices(context.Background(), frontPrint(2), []uuid.UUID{garmentID, missing})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lowest tier: 60% markup on $10 plus 2-color print at $4/shirt, no setup.
	want := decimal.NewFromInt(20)
	if price, ok := got.Prices[garmentID]; !ok || !price.Equal(want) {
		t.Fatalf("expected campaign price %s, got %v", want, got.Prices[garmentID])
	}
	if len(got.MissingGarments) != 1 || got.MissingGarments[0] != missing {
		t.Fatalf("expected missing garment %s reported, got %v", missing, got.MissingGarments)
	}
}
