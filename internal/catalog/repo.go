package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkandthread/printshop-backend/internal/repo"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
)

// GarmentRepository exposes persistence for the garment catalog.
type GarmentRepository interface {
	Create(ctx context.Context, garment *models.Garment) (*models.Garment, error)
	Update(ctx context.Context, garment *models.Garment) (*models.Garment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Garment, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Garment, error)
	ListActive(ctx context.Context) ([]models.Garment, error)
	CountByTier(ctx context.Context, tierID uuid.UUID) (int64, error)
}

// TierRepository exposes persistence for pricing tiers.
type TierRepository interface {
	Create(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error)
	Update(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PricingTier, error)
	List(ctx context.Context) ([]models.PricingTier, error)
}

// PrintPricingRepository exposes persistence for the screen-print rate card.
type PrintPricingRepository interface {
	Upsert(ctx context.Context, row *models.PrintPricing) (*models.PrintPricing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.PrintPricing, error)
	ListByTier(ctx context.Context, tierID uuid.UUID) ([]models.PrintPricing, error)
}

// AppConfigRepository reads and writes tunable platform settings.
type AppConfigRepository interface {
	Get(ctx context.Context, key string) (*models.AppConfig, error)
	Set(ctx context.Context, key, value string) error
}

type garmentRepo struct {
	repo.Base
}

// NewGarmentRepository builds the gorm-backed garment repository.
func NewGarmentRepository(db *gorm.DB) GarmentRepository {
	return &garmentRepo{Base: repo.NewBase(db)}
}

func (r *garmentRepo) Create(ctx context.Context, garment *models.Garment) (*models.Garment, error) {
	if err := r.DB(ctx).Create(garment).Error; err != nil {
		return nil, err
	}
	return garment, nil
}

func (r *garmentRepo) Update(ctx context.Context, garment *models.Garment) (*models.Garment, error) {
	if err := r.DB(ctx).Save(garment).Error; err != nil {
		return nil, err
	}
	return garment, nil
}

func (r *garmentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Garment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *garmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Garment, error) {
	var garment models.Garment
	if err := r.DB(ctx).First(&garment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &garment, nil
}

func (r *garmentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Garment, error) {
	var garments []models.Garment
	if len(ids) == 0 {
		return garments, nil
	}
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&garments).Error; err != nil {
		return nil, err
	}
	return garments, nil
}

func (r *garmentRepo) ListActive(ctx context.Context) ([]models.Garment, error) {
	var garments []models.Garment
	if err := r.DB(ctx).Where("active = ?", true).Order("name ASC").Find(&garments).Error; err != nil {
		return nil, err
	}
	return garments, nil
}

func (r *garmentRepo) CountByTier(ctx context.Context, tierID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Garment{}).Where("pricing_tier_id = ?", tierID).Count(&count).Error
	return count, err
}

type tierRepo struct {
	repo.Base
}

// NewTierRepository builds the gorm-backed pricing tier repository.
func NewTierRepository(db *gorm.DB) TierRepository {
	return &tierRepo{Base: repo.NewBase(db)}
}

func (r *tierRepo) Create(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error) {
	if err := r.DB(ctx).Create(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

func (r *tierRepo) Update(ctx context.Context, tier *models.PricingTier) (*models.PricingTier, error) {
	if err := r.DB(ctx).Save(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

func (r *tierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.PricingTier{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tierRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PricingTier, error) {
	var tier models.PricingTier
	if err := r.DB(ctx).First(&tier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *tierRepo) List(ctx context.Context) ([]models.PricingTier, error) {
	var tiers []models.PricingTier
	if err := r.DB(ctx).Order("min_qty ASC").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

type printPricingRepo struct {
	repo.Base
}

// NewPrintPricingRepository builds the gorm-backed rate card repository.
func NewPrintPricingRepository(db *gorm.DB) PrintPricingRepository {
	return &printPricingRepo{Base: repo.NewBase(db)}
}

func (r *printPricingRepo) Upsert(ctx context.Context, row *models.PrintPricing) (*models.PrintPricing, error) {
	err := r.DB(ctx).
		Where("tier_id = ? AND num_colors = ?", row.TierID, row.NumColors).
		Assign(map[string]any{
			"cost_per_shirt":       row.CostPerShirt,
			"setup_fee_per_screen": row.SetupFeePerScreen,
		}).
		FirstOrCreate(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *printPricingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.PrintPricing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *printPricingRepo) List(ctx context.Context) ([]models.PrintPricing, error) {
	var rows []models.PrintPricing
	if err := r.DB(ctx).Order("tier_id ASC, num_colors ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *printPricingRepo) ListByTier(ctx context.Context, tierID uuid.UUID) ([]models.PrintPricing, error) {
	var rows []models.PrintPricing
	if err := r.DB(ctx).Where("tier_id = ?", tierID).Order("num_colors ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type appConfigRepo struct {
	repo.Base
}

// NewAppConfigRepository builds the gorm-backed app config repository.
func NewAppConfigRepository(db *gorm.DB) AppConfigRepository {
	return &appConfigRepo{Base: repo.NewBase(db)}
}

func (r *appConfigRepo) Get(ctx context.Context, key string) (*models.AppConfig, error) {
	var row models.AppConfig
	if err := r.DB(ctx).First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *appConfigRepo) Set(ctx context.Context, key, value string) error {
	return r.DB(ctx).
		Where("key = ?", key).
		Assign(map[string]any{"value": value}).
		FirstOrCreate(&models.AppConfig{Key: key, Value: value}).Error
}
