package discounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/inkandthread/printshop-backend/internal/pricing"
	"github.com/inkandthread/printshop-backend/pkg/db"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

// Service validates customer codes against a subtotal and gives admins CRUD
// over the code catalog.
type Service interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*types.AppliedDiscount, error)
	Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	Update(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.DiscountCode, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the discount service. A nil clock defaults to time.Now.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

// Validate looks the code up in normalized form and computes its effect on
// the subtotal. Unknown codes surface as not found, expired or inactive ones
// as validation errors; both map to a rejected code for the caller.
func (s *service) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*types.AppliedDiscount, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is required")
	}
	record, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up discount code")
	}
	return pricing.ApplyDiscount(record, subtotal, s.now())
}

func (s *service) Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	if err := validateCodeFields(code); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, code)
	if err != nil {
		return nil, createErr(err)
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	if code.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code id is required")
	}
	if err := validateCodeFields(code); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, code.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading discount code")
	}
	updated, err := s.repo.Update(ctx, code)
	if err != nil {
		return nil, createErr(err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting discount code")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.DiscountCode, error) {
	return s.repo.List(ctx)
}

func validateCodeFields(code *models.DiscountCode) error {
	if code == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount code is required")
	}
	if NormalizeCode(code.Code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !code.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_type must be percentage or fixed")
	}
	if !code.DiscountValue.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_value must be positive")
	}
	if code.DiscountType == enums.DiscountTypePercentage && code.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discounts cannot exceed 100")
	}
	return nil
}

func createErr(err error) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, "discount code already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving discount code")
}
