// Package main, service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur. Her service
// ihtiyaç duyduğu repository interface'lerini ve diğer dependency'leri
// constructor injection ile alır.
package main

import (
	"time"

	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/pkg/cache"
	"github.com/akinalp/sentquote/services"
	"github.com/akinalp/sentquote/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth    services.AuthService
	Quote   services.QuoteService
	Public  services.PublicQuoteService
	Payment services.PaymentService
	Account services.AccountService
	Stats   services.StatsService
}

func initServices(
	cfg *config.Config,
	repos *Repositories,
	publisher ws.EventPublisher,
	integ Integrations,
	processedWebhooks *cache.TTLCache[string, time.Time],
) *Services {
	appURL := cfg.Server.AppURL

	return &Services{
		Auth:    services.NewAuthService(repos.Users, cfg.JWT.Secret, cfg.JWT.ExpiryDays),
		Quote:   services.NewQuoteService(repos.Stores, repos.Tx, integ.Mailer, appURL),
		Public:  services.NewPublicQuoteService(repos.Stores, repos.Tx, publisher),
		Payment: services.NewPaymentService(repos.Stores, repos.Tx, integ.Gateway, publisher, processedWebhooks, appURL),
		Account: services.NewAccountService(repos.Users, integ.Gateway, services.BillingPlan{
			Amount:   cfg.Stripe.ProAmount,
			Currency: cfg.Stripe.Currency,
		}, appURL),
		Stats: services.NewStatsService(repos.Quotes, repos.Events),
	}
}
