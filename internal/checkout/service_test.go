package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"

	"github.com/inkandthread/printshop-backend/internal/pricing"
	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/square"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type stubQuoter struct {
	single *types.QuoteBreakdown
	multi  *types.MultiGarmentQuote
}

func (s *stubQuoter) Quote(context.Context, pricing.QuoteInput) (*types.QuoteBreakdown, error) {
	return s.single, nil
}

func (s *stubQuoter) MultiGarmentQuote(context.Context, pricing.MultiQuoteInput) (*types.MultiGarmentQuote, error) {
	return s.multi, nil
}

type stubDiscounts struct {
	applied *types.AppliedDiscount
	err     error
	gotBase decimal.Decimal
}

func (s *stubDiscounts) Validate(_ context.Context, _ string, subtotal decimal.Decimal) (*types.AppliedDiscount, error) {
	s.gotBase = subtotal
	if s.err != nil {
		return nil, s.err
	}
	return s.applied, nil
}

type stubSnapshots struct{}

func (stubSnapshots) PricingSnapshot(context.Context) (*pricing.Snapshot, error) {
	return &pricing.Snapshot{DepositPercent: decimal.NewFromInt(50)}, nil
}

type stubOrders struct {
	created map[string]*models.Order
}

func (s *stubOrders) CreateFromPending(_ context.Context, paymentIntentID string) (*models.Order, error) {
	if order, ok := s.created[paymentIntentID]; ok {
		return order, nil
	}
	order := &models.Order{ID: uuid.New(), PaymentIntentID: paymentIntentID, Status: enums.OrderStatusPaidDeposit}
	if s.created == nil {
		s.created = map[string]*models.Order{}
	}
	s.created[paymentIntentID] = order
	return order, nil
}

type stubPending struct {
	last *models.PendingOrder
}

func (s *stubPending) Create(_ context.Context, pending *models.PendingOrder) (*models.PendingOrder, error) {
	pending.ID = uuid.New()
	s.last = pending
	return pending, nil
}

type stubPayments struct {
	lastParams square.PaymentCreateParams
	status     string
}

func (s *stubPayments) CreatePayment(_ context.Context, params square.PaymentCreateParams) (*sq.Payment, error) {
	s.lastParams = params
	id := "pay_1"
	status := "APPROVED"
	return &sq.Payment{ID: &id, Status: &status}, nil
}

func (s *stubPayments) GetPayment(context.Context, string) (*sq.Payment, error) {
	id := "pay_1"
	status := s.status
	return &sq.Payment{ID: &id, Status: &status}, nil
}

func (s *stubPayments) NewIdempotencyKey(prefix string) string {
	return prefix + "-key"
}

func singleQuote() *types.QuoteBreakdown {
	return &types.QuoteBreakdown{
		GarmentID:     uuid.New(),
		Quantity:      30,
		Subtotal:      decimal.NewFromInt(590),
		Total:         decimal.NewFromInt(590),
		SetupFees:     decimal.NewFromInt(50),
		DepositAmount: decimal.NewFromInt(295),
		BalanceDue:    decimal.NewFromInt(295),
	}
}

func newTestCheckout(t *testing.T, quotes *stubQuoter, discounts *stubDiscounts, pending *stubPending, payments *stubPayments, cfg config.PricingConfig) Service {
	t.Helper()
	svc, err := NewService(quotes, discounts, stubSnapshots{}, &stubOrders{}, pending, payments, cfg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func validInput() Input {
	return Input{
		CustomerName:  "Robin Vale",
		CustomerEmail: "robin@example.com",
		SourceID:      "cnon:card-nonce",
		GarmentID:     uuid.New(),
		Quantity:      30,
		PrintConfig: types.PrintConfig{
			enums.PrintLocationFront: {Enabled: true, NumColors: 2},
		},
	}
}

func TestStartChargesDepositAndStoresPending(t *testing.T) {
	t.Parallel()

	pending := &stubPending{}
	payments := &stubPayments{}
	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, &stubDiscounts{}, pending, payments,
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24, DiscountIncludesSetup: true})

	res, err := svc.Start(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payments.lastParams.AmountCents != 29500 {
		t.Fatalf("expected 29500 cents charged, got %d", payments.lastParams.AmountCents)
	}
	if res.PaymentID != "pay_1" {
		t.Fatalf("unexpected payment id %q", res.PaymentID)
	}
	if pending.last == nil || pending.last.PaymentIntentID != "pay_1" {
		t.Fatal("pending order not stored under the payment id")
	}
	if pending.last.PricingBreakdown.Kind != enums.BreakdownKindSingle {
		t.Fatalf("unexpected breakdown kind %s", pending.last.PricingBreakdown.Kind)
	}
	if !res.DepositAmount.Add(res.BalanceDue).Equal(res.Total) {
		t.Fatal("payment split does not sum to total")
	}
}

func TestStartPersistedTotalEqualsDepositPlusBalance(t *testing.T) {
	t.Parallel()

	// A fractional markup percentage leaves sub-cent precision on the quote.
	quote := singleQuote()
	quote.Subtotal = decimal.RequireFromString("100.005")
	quote.Total = quote.Subtotal

	pending := &stubPending{}
	svc := newTestCheckout(t, &stubQuoter{single: quote}, &stubDiscounts{}, pending, &stubPayments{},
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24, DiscountIncludesSetup: true})

	res, err := svc.Start(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pending.last.Total.Equal(decimal.RequireFromString("100.01")) {
		t.Fatalf("expected total rounded to 100.01, got %s", pending.last.Total)
	}
	sum := pending.last.DepositAmount.Add(pending.last.BalanceDue)
	if !sum.Equal(pending.last.Total) {
		t.Fatalf("deposit %s + balance %s = %s != persisted total %s",
			pending.last.DepositAmount, pending.last.BalanceDue, sum, pending.last.Total)
	}
	if !res.Total.Equal(pending.last.Total) {
		t.Fatalf("result total %s diverges from persisted total %s", res.Total, pending.last.Total)
	}
}

func TestStartAppliesDiscountBeforeSplit(t *testing.T) {
	t.Parallel()

	discounts := &stubDiscounts{applied: &types.AppliedDiscount{
		Code:           "SUMMER10",
		DiscountType:   enums.DiscountTypePercentage,
		DiscountValue:  decimal.NewFromInt(10),
		DiscountAmount: decimal.NewFromInt(59),
	}}
	pending := &stubPending{}
	payments := &stubPayments{}
	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, discounts, pending, payments,
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24, DiscountIncludesSetup: true})

	input := validInput()
	input.DiscountCode = "summer10"
	res, err := svc.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Discount base includes setup fees under the default mode.
	if !discounts.gotBase.Equal(decimal.NewFromInt(590)) {
		t.Fatalf("expected discount base 590, got %s", discounts.gotBase)
	}
	if !res.Total.Equal(decimal.NewFromInt(531)) {
		t.Fatalf("expected discounted total 531, got %s", res.Total)
	}
	// Deposit is recomputed on the discounted total: 265.50.
	if payments.lastParams.AmountCents != 26550 {
		t.Fatalf("expected 26550 cents charged, got %d", payments.lastParams.AmountCents)
	}
	if !res.DepositAmount.Add(res.BalanceDue).Equal(res.Total) {
		t.Fatal("payment split does not sum to total")
	}
}

func TestStartDiscountBaseExcludesSetupWhenConfigured(t *testing.T) {
	t.Parallel()

	discounts := &stubDiscounts{applied: &types.AppliedDiscount{
		Code:           "SUMMER10",
		DiscountType:   enums.DiscountTypePercentage,
		DiscountValue:  decimal.NewFromInt(10),
		DiscountAmount: decimal.NewFromInt(54),
	}}
	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, discounts, &stubPending{}, &stubPayments{},
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24, DiscountIncludesSetup: false})

	input := validInput()
	input.DiscountCode = "SUMMER10"
	if _, err := svc.Start(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !discounts.gotBase.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("expected discount base 540 without setup fees, got %s", discounts.gotBase)
	}
}

func TestStartRequiresPaymentSource(t *testing.T) {
	t.Parallel()

	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, &stubDiscounts{}, &stubPending{}, &stubPayments{},
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24})

	input := validInput()
	input.SourceID = " "
	_, err := svc.Start(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfirmRejectsIncompletePayment(t *testing.T) {
	t.Parallel()

	payments := &stubPayments{status: "PENDING"}
	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, &stubDiscounts{}, &stubPending{}, payments,
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24})

	_, err := svc.Confirm(context.Background(), "pay_1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfirmPromotesCompletedPayment(t *testing.T) {
	t.Parallel()

	payments := &stubPayments{status: "COMPLETED"}
	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, &stubDiscounts{}, &stubPending{}, payments,
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24})

	order, err := svc.Confirm(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentIntentID != "pay_1" {
		t.Fatalf("unexpected payment intent %q", order.PaymentIntentID)
	}
}

func TestHandlePaymentUpdateIgnoresNonFinalStatuses(t *testing.T) {
	t.Parallel()

	svc := newTestCheckout(t, &stubQuoter{single: singleQuote()}, &stubDiscounts{}, &stubPending{}, &stubPayments{},
		config.PricingConfig{DepositPercent: 50, MinimumOrderQuantity: 24})

	order, err := svc.HandlePaymentUpdate(context.Background(), "pay_1", "PENDING")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Fatal("non-final status should not create an order")
	}
}
