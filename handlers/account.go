package handlers

import (
	"net/http"

	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/services"
)

// AccountHandler, Stripe Connect ve Pro abonelik endpoint'leri.
// İkisi de kullanıcının yönlendirileceği bir URL döner.
type AccountHandler struct {
	accountService services.AccountService
}

// NewAccountHandler, constructor.
func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ConnectStripe godoc
// POST /api/stripe/connect
func (h *AccountHandler) ConnectStripe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	url, err := h.accountService.ConnectStripe(r.Context(), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"url": url})
}

// Checkout godoc
// POST /api/billing/checkout
func (h *AccountHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	url, err := h.accountService.SubscriptionCheckout(r.Context(), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"url": url})
}
