package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/api/responses"
	"github.com/inkandthread/printshop-backend/api/validators"
	"github.com/inkandthread/printshop-backend/internal/catalog"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/logger"
)

type garmentRequest struct {
	Name            string          `json:"name" validate:"required"`
	Brand           *string         `json:"brand"`
	StyleNumber     *string         `json:"style_number"`
	Description     *string         `json:"description"`
	BaseCost        decimal.Decimal `json:"base_cost"`
	PricingTierID   uuid.UUID       `json:"pricing_tier_id" validate:"required"`
	AvailableColors []string        `json:"available_colors"`
	SizeRange       []string        `json:"size_range"`
	SupplierSKU     *string         `json:"supplier_sku"`
	ImageURL        *string         `json:"image_url"`
	Active          *bool           `json:"active"`
}

func (g garmentRequest) toModel() *models.Garment {
	active := true
	if g.Active != nil {
		active = *g.Active
	}
	return &models.Garment{
		Name:            g.Name,
		Brand:           g.Brand,
		StyleNumber:     g.StyleNumber,
		Description:     g.Description,
		BaseCost:        g.BaseCost,
		PricingTierID:   g.PricingTierID,
		AvailableColors: pq.StringArray(g.AvailableColors),
		SizeRange:       pq.StringArray(g.SizeRange),
		SupplierSKU:     g.SupplierSKU,
		ImageURL:        g.ImageURL,
		Active:          active,
	}
}

// GarmentList serves the storefront catalog of active garments.
func GarmentList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		garments, err := svc.ListGarments(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, garments)
	}
}

func AdminGarmentCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var payload garmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		garment, err := svc.CreateGarment(r.Context(), payload.toModel())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, garment)
	}
}

func AdminGarmentUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "garmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload garmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		garment := payload.toModel()
		garment.ID = id
		updated, err := svc.UpdateGarment(r.Context(), garment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminGarmentDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := pathID(r, "garmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteGarment(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminGarmentList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return GarmentList(svc, logg)
}

func pathID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id in path").WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
