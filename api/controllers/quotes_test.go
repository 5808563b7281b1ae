package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/inkandthread/printshop-backend/internal/pricing"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type stubPricingService struct {
	single      *types.QuoteBreakdown
	multi       *types.MultiGarmentQuote
	campaign    *types.CampaignPrices
	err         error
	singleInput pricing.QuoteInput
	multiInput  pricing.MultiQuoteInput
	singleCalls int
	multiCalls  int
}

func (s *stubPricingService) Quote(_ context.Context, input pricing.QuoteInput) (*types.QuoteBreakdown, error) {
	s.singleCalls++
	s.singleInput = input
	return s.single, s.err
}

func (s *stubPricingService) MultiGarmentQuote(_ context.Context, input pricing.MultiQuoteInput) (*types.MultiGarmentQuote, error) {
	s.multiCalls++
	s.multiInput = input
	return s.multi, s.err
}

func (s *stubPricingService) CampaignPrices(_ context.Context, _ types.PrintConfig, _ []uuid.UUID) (*types.CampaignPrices, error) {
	return s.campaign, s.err
}

func TestQuoteSingleGarment(t *testing.T) {
	t.Parallel()

	garmentID := uuid.New()
	svc := &stubPricingService{
		single: &types.QuoteBreakdown{
			GarmentID: garmentID,
			Quantity:  30,
			Total:     decimal.RequireFromString("315.00"),
		},
	}

	body := `{"garment_id":"` + garmentID.String() + `","quantity":30,"print_config":{"front":{"enabled":true,"num_colors":2}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()

	Quote(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, svc.singleCalls)
	require.Zero(t, svc.multiCalls)
	require.Equal(t, garmentID, svc.singleInput.GarmentID)
	require.Equal(t, 30, svc.singleInput.Quantity)

	var envelope struct {
		Data types.QuoteBreakdown `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, garmentID, envelope.Data.GarmentID)
	require.True(t, envelope.Data.Total.Equal(decimal.RequireFromString("315.00")))
}

func TestQuoteMultiGarmentDispatch(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	svc := &stubPricingService{multi: &types.MultiGarmentQuote{TotalQuantity: 48}}

	body := `{"multi_garment":true,"garments":[{"garment_id":"` + first.String() + `","quantity":20},{"garment_id":"` + second.String() + `","quantity":28}],"print_config":{"front":{"enabled":true,"num_colors":1}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()

	Quote(svc, nil)(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, svc.multiCalls)
	require.Zero(t, svc.singleCalls)
	require.Len(t, svc.multiInput.Items, 2)
	require.Equal(t, first, svc.multiInput.Items[0].GarmentID)
	require.Equal(t, 28, svc.multiInput.Items[1].Quantity)
}

func TestQuoteValidationErrorPassesThrough(t *testing.T) {
	t.Parallel()

	garmentID := uuid.New()
	svc := &stubPricingService{err: pkgerrors.New(pkgerrors.CodeValidation, "minimum order quantity is 24")}

	body := `{"garment_id":"` + garmentID.String() + `","quantity":10,"print_config":{"front":{"enabled":true,"num_colors":1}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(body))
	resp := httptest.NewRecorder()

	Quote(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
	require.Equal(t, "minimum order quantity is 24", envelope.Error.Message)
}

func TestQuoteRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	svc := &stubPricingService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(`{"bogus":true}`))
	resp := httptest.NewRecorder()

	Quote(svc, nil)(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Zero(t, svc.singleCalls)
	require.Zero(t, svc.multiCalls)
}

func TestQuoteNilService(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()

	Quote(nil, nil)(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
