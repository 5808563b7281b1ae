package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inkandthread/printshop-backend/api/responses"
	"github.com/inkandthread/printshop-backend/api/validators"
	"github.com/inkandthread/printshop-backend/internal/pricing"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/logger"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type quoteItemRequest struct {
	GarmentID uuid.UUID `json:"garment_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

type quoteRequest struct {
	GarmentID    uuid.UUID          `json:"garment_id"`
	Quantity     int                `json:"quantity" validate:"min=0"`
	MultiGarment bool               `json:"multi_garment"`
	Items        []quoteItemRequest `json:"garments" validate:"omitempty,dive"`
	PrintConfig  types.PrintConfig  `json:"print_config" validate:"required"`
}

// Quote prices a prospective order without persisting anything. The same
// endpoint serves single and multi-garment requests, switched by the
// multi_garment flag.
func Quote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.MultiGarment {
			items := make([]pricing.GarmentQuantity, 0, len(payload.Items))
			for _, item := range payload.Items {
				items = append(items, pricing.GarmentQuantity{GarmentID: item.GarmentID, Quantity: item.Quantity})
			}
			quote, err := svc.MultiGarmentQuote(r.Context(), pricing.MultiQuoteInput{
				Items:       items,
				PrintConfig: payload.PrintConfig,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, quote)
			return
		}

		quote, err := svc.Quote(r.Context(), pricing.QuoteInput{
			GarmentID:   payload.GarmentID,
			Quantity:    payload.Quantity,
			PrintConfig: payload.PrintConfig,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
