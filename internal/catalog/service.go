package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inkandthread/printshop-backend/internal/pricing"
	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the printable catalog: garments, the tier ladder, the
// print rate card, and operator settings. It also feeds the pricing engine
// through PricingSnapshot.
type Service interface {
	CreateGarment(ctx context.Context, garment *models.Garment) (*models.Garment, error)
	UpdateGarment(ctx context.Context, garment *models.Garment) (*models.Garment, error)
	DeleteGarment(ctx context.Context, id uuid.UUID) error
	GetGarment(ctx context.Context, id uuid.UUID) (*models.Garment, error)
	GetGarments(ctx context.Context, ids []uuid.UUID) ([]models.Garment, error)
	ListGarments(ctx context.Context) ([]models.Garment, error)

	CreateTier(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error)
	UpdateTier(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error)
	DeleteTier(ctx context.Context, id uuid.UUID) error
	ListTiers(ctx context.Context) ([]models.PricingTier, error)

	UpsertPrintPricing(ctx context.Context, row *models.PrintPricing) (*models.PrintPricing, error)
	DeletePrintPricing(ctx context.Context, id uuid.UUID) error
	ListPrintPricing(ctx context.Context) ([]models.PrintPricing, error)

	SetDepositPercent(ctx context.Context, percent decimal.Decimal) error
	PricingSnapshot(ctx context.Context) (*pricing.Snapshot, error)
}

type service struct {
	garments GarmentRepository
	tiers    TierRepository
	rates    PrintPricingRepository
	settings AppConfigRepository
	tx       txRunner
	cfg      config.PricingConfig
}

// NewService builds the catalog service backed by the provided repositories.
func NewService(garments GarmentRepository, tiers TierRepository, rates PrintPricingRepository, settings AppConfigRepository, tx txRunner, cfg config.PricingConfig) (Service, error) {
	if garments == nil {
		return nil, fmt.Errorf("garment repository required")
	}
	if tiers == nil {
		return nil, fmt.Errorf("tier repository required")
	}
	if rates == nil {
		return nil, fmt.Errorf("print pricing repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("app config repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		garments: garments,
		tiers:    tiers,
		rates:    rates,
		settings: settings,
		tx:       tx,
		cfg:      cfg,
	}, nil
}

func (s *service) CreateGarment(ctx context.Context, garment *models.Garment) (*models.Garment, error) {
	if err := s.validateGarment(ctx, garment); err != nil {
		return nil, err
	}
	return s.garments.Create(ctx, garment)
}

func (s *service) UpdateGarment(ctx context.Context, garment *models.Garment) (*models.Garment, error) {
	if garment.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "garment id is required")
	}
	if err := s.validateGarment(ctx, garment); err != nil {
		return nil, err
	}
	if _, err := s.garments.FindByID(ctx, garment.ID); err != nil {
		return nil, notFoundOrDependency(err, "garment")
	}
	return s.garments.Update(ctx, garment)
}

func (s *service) DeleteGarment(ctx context.Context, id uuid.UUID) error {
	if err := s.garments.SoftDelete(ctx, id); err != nil {
		return notFoundOrDependency(err, "garment")
	}
	return nil
}

func (s *service) GetGarment(ctx context.Context, id uuid.UUID) (*models.Garment, error) {
	garment, err := s.garments.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "garment")
	}
	if !garment.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "garment is no longer available")
	}
	return garment, nil
}

func (s *service) GetGarments(ctx context.Context, ids []uuid.UUID) ([]models.Garment, error) {
	return s.garments.FindByIDs(ctx, ids)
}

func (s *service) ListGarments(ctx context.Context) ([]models.Garment, error) {
	return s.garments.ListActive(ctx)
}

// CreateTier inserts the tier and revalidates the resulting ladder inside
// one transaction so concurrent edits cannot interleave an invalid set.
func (s *service) CreateTier(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error) {
	if err := validateTierFields(tier); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(tier).Error; err != nil {
			return err
		}
		return s.revalidateLadder(tx)
	})
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *service) UpdateTier(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error) {
	if tier.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier id is required")
	}
	if err := validateTierFields(tier); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(tier).Error; err != nil {
			return err
		}
		return s.revalidateLadder(tx)
	})
	if err != nil {
		return nil, err
	}
	return tier, nil
}

// DeleteTier refuses to remove a tier any garment still references, then
// checks the remaining ladder stays contiguous.
func (s *service) DeleteTier(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.garments.CountByTier(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting garments on tier")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("tier is assigned to %d garments", inUse))
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.PricingTier{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pricing tier not found")
		}
		var remaining int64
		if err := tx.Model(&models.PricingTier{}).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return nil
		}
		return s.revalidateLadder(tx)
	})
}

func (s *service) ListTiers(ctx context.Context) ([]models.PricingTier, error) {
	return s.tiers.List(ctx)
}

func (s *service) UpsertPrintPricing(ctx context.Context, row *models.PrintPricing) (*models.PrintPricing, error) {
	if row.TierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier id is required")
	}
	if row.NumColors < types.MinInkColors || row.NumColors > types.MaxInkColors {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("num_colors must be between %d and %d", types.MinInkColors, types.MaxInkColors))
	}
	if !row.CostPerShirt.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost_per_shirt must be positive")
	}
	if row.SetupFeePerScreen.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setup_fee_per_screen must be non-negative")
	}
	if _, err := s.tiers.FindByID(ctx, row.TierID); err != nil {
		return nil, notFoundOrDependency(err, "pricing tier")
	}
	return s.rates.Upsert(ctx, row)
}

func (s *service) DeletePrintPricing(ctx context.Context, id uuid.UUID) error {
	if err := s.rates.Delete(ctx, id); err != nil {
		return notFoundOrDependency(err, "print pricing row")
	}
	return nil
}

func (s *service) ListPrintPricing(ctx context.Context) ([]models.PrintPricing, error) {
	return s.rates.List(ctx)
}

// SetDepositPercent stores the operator-set deposit percentage.
func (s *service) SetDepositPercent(ctx context.Context, percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "deposit percent must be between 0 and 100")
	}
	return s.settings.Set(ctx, models.AppConfigKeyDepositPercent, percent.String())
}

// PricingSnapshot loads everything the pricing engine prices against. The
// deposit percentage comes from the operator setting when present, falling
// back to the configured default.
func (s *service) PricingSnapshot(ctx context.Context) (*pricing.Snapshot, error) {
	tiers, err := s.tiers.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading pricing tiers")
	}
	rows, err := s.rates.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading print pricing")
	}
	deposit, err := s.depositPercent(ctx)
	if err != nil {
		return nil, err
	}
	return &pricing.Snapshot{
		Tiers:          tiers,
		PrintPricing:   rows,
		DepositPercent: deposit,
	}, nil
}

func (s *service) depositPercent(ctx context.Context) (decimal.Decimal, error) {
	row, err := s.settings.Get(ctx, models.AppConfigKeyDepositPercent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.NewFromInt(int64(s.cfg.DepositPercent)), nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading deposit percent")
	}
	deposit, err := decimal.NewFromString(row.Value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeConfigGap, err, "deposit percent setting is not a number")
	}
	return deposit, nil
}

func (s *service) validateGarment(ctx context.Context, garment *models.Garment) error {
	if garment == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "garment is required")
	}
	if garment.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "garment name is required")
	}
	if !garment.BaseCost.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base_cost must be positive")
	}
	if garment.PricingTierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pricing_tier_id is required")
	}
	if _, err := s.tiers.FindByID(ctx, garment.PricingTierID); err != nil {
		return notFoundOrDependency(err, "pricing tier")
	}
	return nil
}

func (s *service) revalidateLadder(tx *gorm.DB) error {
	var tiers []models.PricingTier
	if err := tx.Order("min_qty ASC").Find(&tiers).Error; err != nil {
		return err
	}
	return pricing.ValidateTierSet(tiers)
}

func validateTierFields(tier *models.PricingTier) error {
	if tier == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tier is required")
	}
	if tier.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "tier name is required")
	}
	if tier.MinQty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_qty must be positive")
	}
	if tier.MaxQty != nil && *tier.MaxQty <= tier.MinQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_qty must be greater than min_qty")
	}
	if tier.GarmentMarkupPercentage.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "garment_markup_percentage must be non-negative")
	}
	return nil
}

func notFoundOrDependency(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading "+what)
}
