package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/services"
)

// QuoteHandler, teklif sahibinin CRUD ve gönderim endpoint'leri.
// Tüm route'lar auth middleware arkasındadır.
type QuoteHandler struct {
	quoteService services.QuoteService
}

// NewQuoteHandler, constructor.
func NewQuoteHandler(quoteService services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// List godoc
// GET /api/quotes
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	quotes, err := h.quoteService.List(r.Context(), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, quotes)
}

// Create godoc
// POST /api/quotes
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	var req models.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, quote)
}

// Get godoc
// GET /api/quotes/{id}
// Response: teklif + son 50 event + takip mesajları
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	detail, err := h.quoteService.Get(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, detail)
}

// Update godoc
// PUT /api/quotes/{id}
// Body'de olmayan alanlar korunur; null gönderilen opsiyonel alanlar temizlenir.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	var req models.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.Update(r.Context(), r.PathValue("id"), claims.UserID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, quote)
}

// Delete godoc
// DELETE /api/quotes/{id}
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	if err := h.quoteService.Delete(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "quote deleted"})
}

// Send godoc
// POST /api/quotes/{id}/send
func (h *QuoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	quote, err := h.quoteService.Send(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, quote)
}
