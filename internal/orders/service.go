package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkandthread/printshop-backend/pkg/db"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderList is one page of orders with the cursor for the next page.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

// Service turns confirmed payments into orders and serves admin reads.
type Service interface {
	CreateFromPending(ctx context.Context, paymentIntentID string) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, params pagination.Params) (*OrderList, error)
}

type service struct {
	pending PendingOrderRepository
	orders  OrderRepository
	tx      txRunner
	now     func() time.Time
}

// NewService builds the orders service. A nil clock defaults to time.Now.
func NewService(pending PendingOrderRepository, orders OrderRepository, tx txRunner, now func() time.Time) (Service, error) {
	if pending == nil {
		return nil, fmt.Errorf("pending order repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{pending: pending, orders: orders, tx: tx, now: now}, nil
}

// CreateFromPending consumes the pending order for the payment intent and
// promotes it to a confirmed order. The webhook and the client confirmation
// endpoint both land here; whichever arrives second finds the pending row
// already consumed, loads the order the winner created, and returns it as a
// success. A payment intent with neither a pending row nor an order is
// unknown.
func (s *service) CreateFromPending(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		pending, err := s.pending.ConsumeByPaymentIntentID(ctx, tx, paymentIntentID)
		if err != nil {
			return err
		}
		created, err := s.orders.Create(ctx, tx, &models.Order{
			OrderNumber:      s.newOrderNumber(),
			PaymentIntentID:  pending.PaymentIntentID,
			CustomerName:     pending.CustomerName,
			CustomerEmail:    pending.CustomerEmail,
			PrintConfig:      pending.PrintConfig,
			PricingBreakdown: pending.PricingBreakdown,
			Subtotal:         pending.Subtotal,
			DiscountCode:     pending.DiscountCode,
			DiscountAmount:   pending.DiscountAmount,
			Total:            pending.Total,
			DepositAmount:    pending.DepositAmount,
			BalanceDue:       pending.BalanceDue,
			Status:           enums.OrderStatusPaidDeposit,
		})
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err == nil {
		return order, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || db.IsUniqueViolation(err, "") {
		existing, lookupErr := s.orders.FindByPaymentIntentID(ctx, paymentIntentID)
		if lookupErr == nil {
			return existing, nil
		}
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout found for payment intent")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lookupErr, "loading order for payment intent")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

func (s *service) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	order, err := s.orders.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*OrderList, error) {
	orders, next, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	list := &OrderList{Orders: orders}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

// newOrderNumber builds a short human-referenceable number, e.g.
// INK-20260828-3F2A1C. Uniqueness is enforced by the database index.
func (s *service) newOrderNumber() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("INK-%s-%s", s.now().UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
