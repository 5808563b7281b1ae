package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inkandthread/printshop-backend/api/responses"
	"github.com/inkandthread/printshop-backend/api/validators"
	checkoutsvc "github.com/inkandthread/printshop-backend/internal/checkout"
	"github.com/inkandthread/printshop-backend/internal/pricing"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/logger"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type checkoutRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerEmail string             `json:"customer_email" validate:"required,email"`
	SourceID      string             `json:"source_id" validate:"required"`
	DiscountCode  string             `json:"discount_code"`
	PrintConfig   types.PrintConfig  `json:"print_config" validate:"required"`
	GarmentID     uuid.UUID          `json:"garment_id"`
	Quantity      int                `json:"quantity" validate:"min=0"`
	MultiGarment  bool               `json:"multi_garment"`
	Items         []quoteItemRequest `json:"garments" validate:"omitempty,dive"`
}

type checkoutConfirmRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

// Checkout reprices the order server-side, charges the deposit through
// Square, and stores the pending order awaiting payment settlement.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]pricing.GarmentQuantity, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, pricing.GarmentQuantity{GarmentID: item.GarmentID, Quantity: item.Quantity})
		}

		result, err := svc.Start(r.Context(), checkoutsvc.Input{
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			SourceID:      payload.SourceID,
			DiscountCode:  payload.DiscountCode,
			PrintConfig:   payload.PrintConfig,
			GarmentID:     payload.GarmentID,
			Quantity:      payload.Quantity,
			MultiGarment:  payload.MultiGarment,
			Items:         items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutConfirm is the client-driven settlement path: the storefront posts
// the payment id back once Square reports the charge completed.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutConfirmRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Confirm(r.Context(), payload.PaymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
