package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkandthread/printshop-backend/internal/repo"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	"github.com/inkandthread/printshop-backend/pkg/pagination"
)

// PendingOrderRepository persists the provisional checkout records.
type PendingOrderRepository interface {
	Create(ctx context.Context, pending *models.PendingOrder) (*models.PendingOrder, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.PendingOrder, error)
	ConsumeByPaymentIntentID(ctx context.Context, tx *gorm.DB, paymentIntentID string) (*models.PendingOrder, error)
}

// OrderRepository persists confirmed orders.
type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, params pagination.Params) ([]models.Order, *pagination.Cursor, error)
}

type pendingRepo struct {
	repo.Base
}

// NewPendingOrderRepository builds the gorm-backed pending order repository.
func NewPendingOrderRepository(db *gorm.DB) PendingOrderRepository {
	return &pendingRepo{Base: repo.NewBase(db)}
}

func (r *pendingRepo) Create(ctx context.Context, pending *models.PendingOrder) (*models.PendingOrder, error) {
	if err := r.DB(ctx).Create(pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *pendingRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.PendingOrder, error) {
	var pending models.PendingOrder
	if err := r.DB(ctx).First(&pending, "payment_intent_id = ?", paymentIntentID).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

// ConsumeByPaymentIntentID deletes the pending row and returns it in one
// statement. Exactly one concurrent caller gets the row back; everyone else
// sees ErrRecordNotFound. This is the gate that makes order creation
// idempotent under races.
func (r *pendingRepo) ConsumeByPaymentIntentID(ctx context.Context, tx *gorm.DB, paymentIntentID string) (*models.PendingOrder, error) {
	db := tx
	if db == nil {
		db = r.DB(ctx)
	} else {
		db = db.WithContext(ctx)
	}
	var pending models.PendingOrder
	res := db.Clauses(clause.Returning{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Delete(&pending)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &pending, nil
}

type orderRepo struct {
	repo.Base
}

// NewOrderRepository builds the gorm-backed order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{Base: repo.NewBase(db)}
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	db := tx
	if db == nil {
		db = r.DB(ctx)
	} else {
		db = db.WithContext(ctx)
	}
	if err := db.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "payment_intent_id = ?", paymentIntentID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	res := r.DB(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, params pagination.Params) ([]models.Order, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.DB(ctx).Model(&models.Order{})
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, nil, err
	}
	if len(orders) > normalized {
		next := orders[normalized]
		orders = orders[:normalized]
		return orders, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return orders, nil, nil
}
