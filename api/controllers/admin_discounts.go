package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/api/responses"
	"github.com/inkandthread/printshop-backend/api/validators"
	"github.com/inkandthread/printshop-backend/internal/discounts"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/logger"
)

type discountCodeRequest struct {
	Code          string          `json:"code" validate:"required"`
	Description   *string         `json:"description"`
	DiscountType  string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Active        *bool           `json:"active"`
	ExpiresAt     *time.Time      `json:"expires_at"`
}

func (d discountCodeRequest) toModel() *models.DiscountCode {
	active := true
	if d.Active != nil {
		active = *d.Active
	}
	return &models.DiscountCode{
		Code:          d.Code,
		Description:   d.Description,
		DiscountType:  enums.DiscountType(d.DiscountType),
		DiscountValue: d.DiscountValue,
		Active:        active,
		ExpiresAt:     d.ExpiresAt,
	}
}

func AdminDiscountCodeList(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		codes, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, codes)
	}
}

func AdminDiscountCodeCreate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		var payload discountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code, err := svc.Create(r.Context(), payload.toModel())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, code)
	}
}

func AdminDiscountCodeUpdate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		id, err := pathID(r, "discountCodeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload discountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code := payload.toModel()
		code.ID = id
		updated, err := svc.Update(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminDiscountCodeDelete(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		id, err := pathID(r, "discountCodeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
