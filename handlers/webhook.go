package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/services"
	"go.uber.org/zap"
)

// Stripe webhook payload'ları bu sınırın çok altındadır.
const maxWebhookBody = 64 << 10

// WebhookHandler, ödeme sağlayıcısından gelen webhook'ları alır.
type WebhookHandler struct {
	paymentService services.PaymentService
	log            *zap.Logger
}

// NewWebhookHandler, constructor.
func NewWebhookHandler(paymentService services.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		log:            zap.L().Named("webhook"),
	}
}

// Stripe godoc
// POST /api/webhooks/stripe
//
// İmza raw body üzerinden doğrulandığı için body JSON olarak decode edilmez.
// İmza/payload hatası 400, kayıt hatası 500 (Stripe tekrar dener),
// geri kalan her şey 200 { "received": true }.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "failed to read webhook body")
		return
	}

	err = h.paymentService.ReconcileWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, pkg.ErrBadRequest) {
			h.log.Warn("rejected webhook", zap.Error(err))
		}
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
