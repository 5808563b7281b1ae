package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/inkandthread/printshop-backend/api/responses"
	checkoutsvc "github.com/inkandthread/printshop-backend/internal/checkout"
	"github.com/inkandthread/printshop-backend/pkg/config"
	pkgerrors "github.com/inkandthread/printshop-backend/pkg/errors"
	"github.com/inkandthread/printshop-backend/pkg/logger"
)

const squareSignatureHeader = "x-square-hmacsha256-signature"

// signatureVerifier matches the Square client's webhook verification surface.
type signatureVerifier interface {
	VerifyWebhookSignature(signature, notificationURL string, body []byte) bool
}

type squareWebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Payment struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"payment"`
		} `json:"object"`
	} `json:"data"`
}

// SquareWebhook settles payments reported by Square. Signature verification
// happens against the raw body, before any JSON parsing. Events other than
// payment.updated are acknowledged and dropped.
func SquareWebhook(svc checkoutsvc.Service, verifier signatureVerifier, cfg config.SquareConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		if verifier == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook verifier unavailable"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read webhook body"))
			return
		}

		signature := r.Header.Get(squareSignatureHeader)
		if !verifier.VerifyWebhookSignature(signature, cfg.WebhookURL, body) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event squareWebhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}

		if event.Type != "payment.updated" {
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}

		order, err := svc.HandlePaymentUpdate(r.Context(), event.Data.Object.Payment.ID, event.Data.Object.Payment.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order == nil {
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
