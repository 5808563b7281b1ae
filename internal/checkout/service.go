package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"

	"github.com/inkandthread/printshop-backend/internal/pricing"
	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/square"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type quoter interface {
	Quote(ctx context.Context, input pricing.QuoteInput) (*types.QuoteBreakdown, error)
	MultiGarmentQuote(ctx context.Context, input pricing.MultiQuoteInput) (*types.MultiGarmentQuote, error)
}

type discountValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*types.AppliedDiscount, error)
}

type snapshotSource interface {
	PricingSnapshot(ctx context.Context) (*pricing.Snapshot, error)
}

type orderCreator interface {
	CreateFromPending(ctx context.Context, paymentIntentID string) (*models.Order, error)
}

type pendingWriter interface {
	Create(ctx context.Context, pending *models.PendingOrder) (*models.PendingOrder, error)
}

type paymentGateway interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*sq.Payment, error)
	NewIdempotencyKey(prefix string) string
}

// Input is a checkout request. Quantities and prices are always recomputed
// server-side; the client only chooses what to buy and supplies the Square
// card token.
type Input struct {
	CustomerName  string
	CustomerEmail string
	SourceID      string
	DiscountCode  string
	PrintConfig   types.PrintConfig

	// Single-garment checkout.
	GarmentID uuid.UUID
	Quantity  int

	// Multi-garment checkout.
	MultiGarment bool
	Items        []pricing.GarmentQuantity
}

// Result reports the created payment and the totals the customer was charged
// against.
type Result struct {
	PendingOrderID uuid.UUID              `json:"pending_order_id"`
	PaymentID      string                 `json:"payment_id"`
	PaymentStatus  string                 `json:"payment_status"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountCode   *string                `json:"discount_code,omitempty"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	Total          decimal.Decimal        `json:"total"`
	DepositAmount  decimal.Decimal        `json:"deposit_amount"`
	BalanceDue     decimal.Decimal        `json:"balance_due"`
	Breakdown      types.PricingBreakdown `json:"breakdown"`
}

// Service starts checkouts and settles them into orders.
type Service interface {
	Start(ctx context.Context, input Input) (*Result, error)
	Confirm(ctx context.Context, paymentID string) (*models.Order, error)
	HandlePaymentUpdate(ctx context.Context, paymentID, status string) (*models.Order, error)
}

type service struct {
	quotes    quoter
	discounts discountValidator
	snapshots snapshotSource
	orders    orderCreator
	pending   pendingWriter
	payments  paymentGateway
	cfg       config.PricingConfig
}

// NewService builds the checkout service.
func NewService(quotes quoter, discounts discountValidator, snapshots snapshotSource, orders orderCreator, pending pendingWriter, payments paymentGateway, cfg config.PricingConfig) (Service, error) {
	if quotes == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if discounts == nil {
		return nil, fmt.Errorf("discount service required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot source required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if pending == nil {
		return nil, fmt.Errorf("pending order repository required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &service{
		quotes:    quotes,
		discounts: discounts,
		snapshots: snapshots,
		orders:    orders,
		pending:   pending,
		payments:  payments,
		cfg:       cfg,
	}, nil
}

// Start reprices the order, applies any discount code, charges the deposit
// through Square, and stores the pending order keyed by the payment id.
func (s *service) Start(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and email are required")
	}
	if strings.TrimSpace(input.SourceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}

	breakdown, subtotal, setupFees, err := s.price(ctx, input)
	if err != nil {
		return nil, err
	}

	var appliedCode *string
	discountAmount := decimal.Zero
	if strings.TrimSpace(input.DiscountCode) != "" {
		base := subtotal
		if !s.cfg.DiscountIncludesSetup {
			base = subtotal.Sub(setupFees)
		}
		applied, err := s.discounts.Validate(ctx, input.DiscountCode, base)
		if err != nil {
			return nil, err
		}
		discountAmount = applied.DiscountAmount
		appliedCode = &applied.Code
	}

	// Round to cents once, before the split, so the persisted total is the
	// exact sum of deposit and balance.
	total := subtotal.Sub(discountAmount).Round(2)
	snap, err := s.snapshots.PricingSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	deposit, balance := pricing.SplitDeposit(total, snap.DepositPercent)

	payment, err := s.payments.CreatePayment(ctx, square.PaymentCreateParams{
		AmountCents:    deposit.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:       "USD",
		SourceID:       input.SourceID,
		IdempotencyKey: s.payments.NewIdempotencyKey("checkout"),
		Note:           fmt.Sprintf("Deposit for %s", input.CustomerName),
	})
	if err != nil {
		return nil, err
	}
	paymentID := stringValue(payment.GetID())
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square returned a payment without an id")
	}

	pendingOrder, err := s.pending.Create(ctx, &models.PendingOrder{
		PaymentIntentID:  paymentID,
		CustomerName:     strings.TrimSpace(input.CustomerName),
		CustomerEmail:    strings.TrimSpace(input.CustomerEmail),
		PrintConfig:      input.PrintConfig,
		PricingBreakdown: *breakdown,
		Subtotal:         subtotal.Round(2),
		DiscountCode:     appliedCode,
		DiscountAmount:   discountAmount,
		Total:            total,
		DepositAmount:    deposit,
		BalanceDue:       balance,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing pending order")
	}

	return &Result{
		PendingOrderID: pendingOrder.ID,
		PaymentID:      paymentID,
		PaymentStatus:  stringValue(payment.GetStatus()),
		Subtotal:       pendingOrder.Subtotal,
		DiscountCode:   appliedCode,
		DiscountAmount: discountAmount,
		Total:          pendingOrder.Total,
		DepositAmount:  deposit,
		BalanceDue:     balance,
		Breakdown:      *breakdown,
	}, nil
}

// Confirm is the client-driven settlement path: verify the payment completed
// with Square, then promote the pending order. Safe to retry.
func (s *service) Confirm(ctx context.Context, paymentID string) (*models.Order, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if status := stringValue(payment.GetStatus()); status != "COMPLETED" && status != "APPROVED" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("payment is not complete (status %s)", status))
	}
	return s.orders.CreateFromPending(ctx, paymentID)
}

// HandlePaymentUpdate is the webhook settlement path. Non-final statuses are
// ignored; a completed payment promotes the pending order exactly once.
func (s *service) HandlePaymentUpdate(ctx context.Context, paymentID, status string) (*models.Order, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	if status != "COMPLETED" {
		return nil, nil
	}
	return s.orders.CreateFromPending(ctx, paymentID)
}

func (s *service) price(ctx context.Context, input Input) (*types.PricingBreakdown, decimal.Decimal, decimal.Decimal, error) {
	if input.MultiGarment {
		quote, err := s.quotes.MultiGarmentQuote(ctx, pricing.MultiQuoteInput{
			Items:       input.Items,
			PrintConfig: input.PrintConfig,
		})
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		breakdown := types.MultiBreakdown(*quote)
		return &breakdown, quote.Subtotal, quote.SetupFees, nil
	}

	quote, err := s.quotes.Quote(ctx, pricing.QuoteInput{
		GarmentID:   input.GarmentID,
		Quantity:    input.Quantity,
		PrintConfig: input.PrintConfig,
	})
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	breakdown := types.SingleBreakdown(*quote)
	return &breakdown, quote.Subtotal, quote.SetupFees, nil
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
