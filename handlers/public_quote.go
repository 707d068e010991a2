package handlers

import (
	"net/http"

	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/pkg/ratelimit"
	"github.com/akinalp/sentquote/services"
)

// PublicQuoteHandler, müşterinin giriş yapmadan kullandığı endpoint'ler.
// Teklif slug ile bulunur.
type PublicQuoteHandler struct {
	publicService  services.PublicQuoteService
	paymentService services.PaymentService
	ips            *ratelimit.IPResolver
}

// NewPublicQuoteHandler, constructor.
func NewPublicQuoteHandler(
	publicService services.PublicQuoteService,
	paymentService services.PaymentService,
	ips *ratelimit.IPResolver,
) *PublicQuoteHandler {
	return &PublicQuoteHandler{
		publicService:  publicService,
		paymentService: paymentService,
		ips:            ips,
	}
}

// View godoc
// GET /api/public/quotes/{slug}
// Her çağrı bir görüntüleme olarak sayılır.
func (h *PublicQuoteHandler) View(w http.ResponseWriter, r *http.Request) {
	quote, err := h.publicService.View(r.Context(), r.PathValue("slug"), h.visitorFrom(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, quote)
}

// Accept godoc
// POST /api/public/quotes/{slug}/accept
func (h *PublicQuoteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	quote, err := h.publicService.Accept(r.Context(), r.PathValue("slug"), h.visitorFrom(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, quote)
}

// Pay godoc
// POST /api/public/quotes/{slug}/pay
// Response: { "url": "https://checkout.stripe.com/..." }
func (h *PublicQuoteHandler) Pay(w http.ResponseWriter, r *http.Request) {
	url, err := h.paymentService.InitiatePayment(r.Context(), r.PathValue("slug"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *PublicQuoteHandler) visitorFrom(r *http.Request) services.Visitor {
	ua := r.UserAgent()
	if ua == "" {
		ua = "unknown"
	}
	return services.Visitor{
		IPAddress: h.ips.ClientIP(r),
		UserAgent: ua,
	}
}
