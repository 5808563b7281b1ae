package discounts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkandthread/printshop-backend/internal/repo"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
)

// NormalizeCode canonicalizes user-entered codes: surrounding whitespace is
// dropped and the code is upper-cased so "  summer10 " matches "SUMMER10".
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Repository exposes discount code persistence. Codes are stored in their
// normalized form only.
type Repository interface {
	Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	Update(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	List(ctx context.Context) ([]models.DiscountCode, error)
}

type discountRepo struct {
	repo.Base
}

// NewRepository builds the gorm-backed discount code repository.
func NewRepository(db *gorm.DB) Repository {
	return &discountRepo{Base: repo.NewBase(db)}
}

func (r *discountRepo) Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	code.Code = NormalizeCode(code.Code)
	if err := r.DB(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (r *discountRepo) Update(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	code.Code = NormalizeCode(code.Code)
	if err := r.DB(ctx).Save(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (r *discountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.DiscountCode{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *discountRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	var code models.DiscountCode
	if err := r.DB(ctx).First(&code, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *discountRepo) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var row models.DiscountCode
	if err := r.DB(ctx).First(&row, "code = ?", NormalizeCode(code)).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *discountRepo) List(ctx context.Context) ([]models.DiscountCode, error) {
	var codes []models.DiscountCode
	if err := r.DB(ctx).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
