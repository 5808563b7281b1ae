package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	checkoutsvc "github.com/inkandthread/printshop-backend/internal/checkout"
	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type stubCheckoutService struct {
	result    *checkoutsvc.Result
	order     *models.Order
	err       error
	paymentID string
	status    string
	calls     int
}

func (s *stubCheckoutService) Start(context.Context, checkoutsvc.Input) (*checkoutsvc.Result, error) {
	return s.result, s.err
}

func (s *stubCheckoutService) Confirm(_ context.Context, paymentID string) (*models.Order, error) {
	s.calls++
	s.paymentID = paymentID
	return s.order, s.err
}

func (s *stubCheckoutService) HandlePaymentUpdate(_ context.Context, paymentID, status string) (*models.Order, error) {
	s.calls++
	s.paymentID = paymentID
	s.status = status
	return s.order, s.err
}

type stubSignatureVerifier struct {
	ok        bool
	signature string
	url       string
}

func (s *stubSignatureVerifier) VerifyWebhookSignature(signature, notificationURL string, _ []byte) bool {
	s.signature = signature
	s.url = notificationURL
	return s.ok
}

func squareWebhookConfig() config.SquareConfig {
	return config.SquareConfig{WebhookURL: "https://api.inkandthread.co/api/v1/webhooks/square"}
}

func TestSquareWebhookRejectsBadSignature(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	verifier := &stubSignatureVerifier{ok: false}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", strings.NewReader(`{"type":"payment.updated"}`))
	req.Header.Set("x-square-hmacsha256-signature", "forged")
	resp := httptest.NewRecorder()

	SquareWebhook(svc, verifier, squareWebhookConfig(), nil)(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Zero(t, svc.calls)
	require.Equal(t, "forged", verifier.signature)
	require.Equal(t, "https://api.inkandthread.co/api/v1/webhooks/square", verifier.url)
}

func TestSquareWebhookIgnoresOtherEvents(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	verifier := &stubSignatureVerifier{ok: true}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", strings.NewReader(`{"type":"refund.created"}`))
	resp := httptest.NewRecorder()

	SquareWebhook(svc, verifier, squareWebhookConfig(), nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Zero(t, svc.calls)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "ignored", envelope.Data["status"])
}

func TestSquareWebhookSettlesPayment(t *testing.T) {
	t.Parallel()

	order := &models.Order{
		OrderNumber:     "ORD-20260315-0001",
		PaymentIntentID: "pay_123",
		Status:          enums.OrderStatusPaidDeposit,
	}
	svc := &stubCheckoutService{order: order}
	verifier := &stubSignatureVerifier{ok: true}

	body := `{"type":"payment.updated","data":{"object":{"payment":{"id":"pay_123","status":"COMPLETED"}}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", strings.NewReader(body))
	resp := httptest.NewRecorder()

	SquareWebhook(svc, verifier, squareWebhookConfig(), nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, svc.calls)
	require.Equal(t, "pay_123", svc.paymentID)
	require.Equal(t, "COMPLETED", svc.status)

	var envelope struct {
		Data orderResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "ORD-20260315-0001", envelope.Data.OrderNumber)
	require.Equal(t, "pay_123", envelope.Data.PaymentIntentID)
}

func TestSquareWebhookAcksUnsettledPayment(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	verifier := &stubSignatureVerifier{ok: true}

	body := `{"type":"payment.updated","data":{"object":{"payment":{"id":"pay_456","status":"PENDING"}}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", strings.NewReader(body))
	resp := httptest.NewRecorder()

	SquareWebhook(svc, verifier, squareWebhookConfig(), nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, svc.calls)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "ignored", envelope.Data["status"])
}

func TestSquareWebhookMalformedPayload(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	verifier := &stubSignatureVerifier{ok: true}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", strings.NewReader(`{not json`))
	resp := httptest.NewRecorder()

	SquareWebhook(svc, verifier, squareWebhookConfig(), nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Zero(t, svc.calls)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}
