package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

type stubGarmentRepo struct {
	GarmentRepository
	byID        map[uuid.UUID]*models.Garment
	tierInUse   int64
	softDeleted []uuid.UUID
}

func (s *stubGarmentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Garment, error) {
	if g, ok := s.byID[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGarmentRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.softDeleted = append(s.softDeleted, id)
	return nil
}

func (s *stubGarmentRepo) CountByTier(context.Context, uuid.UUID) (int64, error) {
	return s.tierInUse, nil
}

type stubTierRepo struct {
	TierRepository
	byID  map[uuid.UUID]*models.PricingTier
	tiers []models.PricingTier
}

func (s *stubTierRepo) FindByID(_ context.Context, id uuid.UUID) (*models.PricingTier, error) {
	if tier, ok := s.byID[id]; ok {
		return tier, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTierRepo) List(context.Context) ([]models.PricingTier, error) {
	return s.tiers, nil
}

type stubRateRepo struct {
	PrintPricingRepository
	rows []models.PrintPricing
}

func (s *stubRateRepo) List(context.Context) ([]models.PrintPricing, error) {
	return s.rows, nil
}

type stubSettingsRepo struct {
	AppConfigRepository
	rows map[string]string
}

func (s *stubSettingsRepo) Get(_ context.Context, key string) (*models.AppConfig, error) {
	if v, ok := s.rows[key]; ok {
		return &models.AppConfig{Key: key, Value: v}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestCatalog(t *testing.T, garments *stubGarmentRepo, tiers *stubTierRepo, rates *stubRateRepo, settings *stubSettingsRepo) Service {
	t.Helper()
	if garments.byID == nil {
		garments.byID = map[uuid.UUID]*models.Garment{}
	}
	if tiers.byID == nil {
		tiers.byID = map[uuid.UUID]*models.PricingTier{}
	}
	svc, err := NewService(garments, tiers, rates, settings, stubTx{}, config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestDeleteTierRejectsTierInUse(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t,
		&stubGarmentRepo{tierInUse: 3},
		&stubTierRepo{},
		&stubRateRepo{},
		&stubSettingsRepo{},
	)

	err := svc.DeleteTier(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected in-use tier delete to fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestCreateTierRejectsSingleQuantityBand(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t, &stubGarmentRepo{}, &stubTierRepo{}, &stubRateRepo{}, &stubSettingsRepo{})

	_, err := svc.CreateTier(context.Background(), &models.PricingTier{
		Name:                    "24-24",
		MinQty:                  24,
		MaxQty:                  intPtr(24),
		GarmentMarkupPercentage: decimal.NewFromInt(50),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for max_qty == min_qty, got %v", err)
	}
}

func TestGetGarmentHidesInactive(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := newTestCatalog(t,
		&stubGarmentRepo{byID: map[uuid.UUID]*models.Garment{
			id: {ID: id, Name: "Retired Tee", BaseCost: decimal.NewFromInt(8), Active: false},
		}},
		&stubTierRepo{},
		&stubRateRepo{},
		&stubSettingsRepo{},
	)

	_, err := svc.GetGarment(context.Background(), id)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPricingSnapshotDepositFallsBackToConfig(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t,
		&stubGarmentRepo{},
		&stubTierRepo{tiers: []models.PricingTier{{Name: "24+", MinQty: 24}}},
		&stubRateRepo{},
		&stubSettingsRepo{},
	)

	snap, err := svc.PricingSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.DepositPercent.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected config fallback 50, got %s", snap.DepositPercent)
	}
}

func TestPricingSnapshotDepositFromSetting(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t,
		&stubGarmentRepo{},
		&stubTierRepo{tiers: []models.PricingTier{{Name: "24+", MinQty: 24}}},
		&stubRateRepo{},
		&stubSettingsRepo{rows: map[string]string{models.AppConfigKeyDepositPercent: "35"}},
	)

	snap, err := svc.PricingSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.DepositPercent.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("expected operator setting 35, got %s", snap.DepositPercent)
	}
}

func TestUpsertPrintPricingValidatesColorBounds(t *testing.T) {
	t.Parallel()

	svc := newTestCatalog(t,
		&stubGarmentRepo{},
		&stubTierRepo{},
		&stubRateRepo{},
		&stubSettingsRepo{},
	)

	_, err := svc.UpsertPrintPricing(context.Background(), &models.PrintPricing{
		TierID:       uuid.New(),
		NumColors:    5,
		CostPerShirt: decimal.NewFromInt(3),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
