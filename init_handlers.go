// Package main, handler katmanı başlatma.
package main

import (
	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/handlers"
	"github.com/akinalp/sentquote/pkg/ratelimit"
	"github.com/akinalp/sentquote/ws"
)

// Handlers, tüm HTTP handler instance'larını tutan container struct.
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Quote   *handlers.QuoteHandler
	Public  *handlers.PublicQuoteHandler
	Webhook *handlers.WebhookHandler
	Stats   *handlers.StatsHandler
	Account *handlers.AccountHandler
	WS      *ws.Handler
}

func initHandlers(
	cfg *config.Config,
	db *database.DB,
	svcs *Services,
	hub *ws.Hub,
	loginLimiter *ratelimit.LoginRateLimiter,
) *Handlers {
	ips := ratelimit.NewIPResolver(cfg.Server.TrustedProxies)

	return &Handlers{
		Health:  handlers.NewHealthHandler(db.Conn),
		Auth:    handlers.NewAuthHandler(svcs.Auth, loginLimiter, ips),
		Quote:   handlers.NewQuoteHandler(svcs.Quote),
		Public:  handlers.NewPublicQuoteHandler(svcs.Public, svcs.Payment, ips),
		Webhook: handlers.NewWebhookHandler(svcs.Payment),
		Stats:   handlers.NewStatsHandler(svcs.Stats),
		Account: handlers.NewAccountHandler(svcs.Account),
		WS:      ws.NewHandler(hub, svcs.Auth, cfg.Server.AllowedOrigins),
	}
}
