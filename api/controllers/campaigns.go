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

type campaignPriceRequest struct {
	GarmentIDs  []uuid.UUID       `json:"garment_ids" validate:"required,min=1"`
	PrintConfig types.PrintConfig `json:"print_config" validate:"required"`
}

// CampaignCalculatePrice returns the conservative per-unit sticker price for
// each garment in a group campaign.
func CampaignCalculatePrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload campaignPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prices, err := svc.CampaignPrices(r.Context(), payload.PrintConfig, payload.GarmentIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prices)
	}
}
