package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inkandthread/printshop-backend/api/responses"
	"github.com/inkandthread/printshop-backend/api/validators"
	"github.com/inkandthread/printshop-backend/internal/orders"
	"github.com/inkandthread/printshop-backend/pkg/db/models"
	"github.com/inkandthread/printshop-backend/pkg/enums"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/logger"
	"github.com/inkandthread/printshop-backend/pkg/pagination"
	"github.com/inkandthread/printshop-backend/pkg/types"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderResponse struct {
	ID               uuid.UUID              `json:"id"`
	OrderNumber      string                 `json:"order_number"`
	PaymentIntentID  string                 `json:"payment_intent_id"`
	CustomerName     string                 `json:"customer_name"`
	CustomerEmail    string                 `json:"customer_email"`
	Status           string                 `json:"status"`
	Subtotal         decimal.Decimal        `json:"subtotal"`
	DiscountCode     *string                `json:"discount_code,omitempty"`
	DiscountAmount   decimal.Decimal        `json:"discount_amount"`
	Total            decimal.Decimal        `json:"total"`
	DepositAmount    decimal.Decimal        `json:"deposit_amount"`
	BalanceDue       decimal.Decimal        `json:"balance_due"`
	PricingBreakdown types.PricingBreakdown `json:"pricing_breakdown"`
	CreatedAt        time.Time              `json:"created_at"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	return orderResponse{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		PaymentIntentID:  order.PaymentIntentID,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		Status:           string(order.Status),
		Subtotal:         order.Subtotal,
		DiscountCode:     order.DiscountCode,
		DiscountAmount:   order.DiscountAmount,
		Total:            order.Total,
		DepositAmount:    order.DepositAmount,
		BalanceDue:       order.BalanceDue,
		PricingBreakdown: order.PricingBreakdown,
		CreatedAt:        order.CreatedAt,
	}
}

// AdminOrderList returns a cursor-paginated page of orders, newest first.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := orderListResponse{
			Orders:     make([]orderResponse, 0, len(page.Orders)),
			NextCursor: page.NextCursor,
		}
		for i := range page.Orders {
			out.Orders = append(out.Orders, newOrderResponse(&page.Orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// AdminOrderUpdateStatus moves an order through the production workflow.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}
		if err := svc.UpdateStatus(r.Context(), id, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}
