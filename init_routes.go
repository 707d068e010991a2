// Package main, HTTP route registration.
package main

import (
	"net/http"

	"github.com/akinalp/sentquote/middleware"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: "/api/quotes/{id}/send" gibi daha spesifik
// pattern'ler Go 1.22 mux'ında zaten önceliklidir; yine de okunabilirlik
// için literal path'ler önce yazılır.
func initRoutes(mux *http.ServeMux, h *Handlers, authMw *middleware.AuthMiddleware) {
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}

	mux.HandleFunc("GET /api/health", h.Health.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("GET /api/auth/me", auth(h.Auth.Me))

	// Quotes (sahip)
	mux.Handle("GET /api/quotes", auth(h.Quote.List))
	mux.Handle("POST /api/quotes", auth(h.Quote.Create))
	mux.Handle("GET /api/quotes/{id}", auth(h.Quote.Get))
	mux.Handle("PUT /api/quotes/{id}", auth(h.Quote.Update))
	mux.Handle("DELETE /api/quotes/{id}", auth(h.Quote.Delete))
	mux.Handle("POST /api/quotes/{id}/send", auth(h.Quote.Send))

	// Public (müşteri, token yok)
	mux.HandleFunc("GET /api/public/quotes/{slug}", h.Public.View)
	mux.HandleFunc("POST /api/public/quotes/{slug}/accept", h.Public.Accept)
	mux.HandleFunc("POST /api/public/quotes/{slug}/pay", h.Public.Pay)

	// Stripe webhook: imza ile doğrulanır, auth yok
	mux.HandleFunc("POST /api/webhooks/stripe", h.Webhook.Stripe)

	mux.Handle("GET /api/stats", auth(h.Stats.Dashboard))

	// Stripe Connect + abonelik
	mux.Handle("POST /api/stripe/connect", auth(h.Account.ConnectStripe))
	mux.Handle("POST /api/billing/checkout", auth(h.Account.Checkout))

	// WebSocket: tarayıcılar upgrade sırasında header gönderemez,
	// token query parameter ile gelir (ws://host/ws?token=JWT).
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
