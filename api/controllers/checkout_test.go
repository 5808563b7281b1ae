package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	checkoutsvc "github.com/inkandthread/printshop-backend/internal/checkout"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	t.Parallel()

	garmentID := uuid.New()
	svc := &stubCheckoutService{
		result: &checkoutsvc.Result{
			PendingOrderID: uuid.New(),
			PaymentID:      "pay_789",
			PaymentStatus:  "APPROVED",
			Total:          decimal.RequireFromString("402.50"),
			DepositAmount:  decimal.RequireFromString("201.25"),
			BalanceDue:     decimal.RequireFromString("201.25"),
		},
	}

	body := `{"customer_name":"Ana Reyes","customer_email":"ana@example.com","source_id":"cnon:card-nonce","garment_id":"` + garmentID.String() + `","quantity":40,"print_config":{"front":{"enabled":true,"num_colors":2}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)

	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "pay_789", envelope.Data.PaymentID)
	require.True(t, envelope.Data.DepositAmount.Equal(decimal.RequireFromString("201.25")))
}

func TestCheckoutRequiresCustomerEmail(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}

	body := `{"customer_name":"Ana Reyes","source_id":"cnon:card-nonce","quantity":40,"print_config":{"front":{"enabled":true,"num_colors":2}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}

func TestCheckoutConfirmReturnsOrder(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{
		order: &models.Order{
			OrderNumber:     "ORD-20260315-0002",
			PaymentIntentID: "pay_789",
			Status:          enums.OrderStatusPaidDeposit,
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(`{"payment_id":"pay_789"}`))
	resp := httptest.NewRecorder()

	CheckoutConfirm(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "pay_789", svc.paymentID)

	var envelope struct {
		Data orderResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "ORD-20260315-0002", envelope.Data.OrderNumber)
	require.Equal(t, string(enums.OrderStatusPaidDeposit), envelope.Data.Status)
}

func TestCheckoutConfirmNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no order for payment")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm", strings.NewReader(`{"payment_id":"pay_missing"}`))
	resp := httptest.NewRecorder()

	CheckoutConfirm(svc, nil)(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}
