// Package main, dış servis entegrasyonları (Stripe, Resend).
//
// İkisi de opsiyoneldir: anahtar tanımlı değilse ilgili alan nil kalır
// ve service'ler bu durumu kendi içinde ele alır.
package main

import (
	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/pkg/email"
	"github.com/akinalp/sentquote/pkg/payment"
	"go.uber.org/zap"
)

// Integrations, dış servis client'ları. nil alan "yapılandırılmamış" demektir.
type Integrations struct {
	Gateway payment.Gateway
	Mailer  email.QuoteMailer
}

func initIntegrations(cfg *config.Config) Integrations {
	log := zap.L().Named("main")
	var integ Integrations

	if cfg.Stripe.Enabled() {
		integ.Gateway = payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
		if cfg.Stripe.WebhookSecret == "" {
			log.Warn("STRIPE_WEBHOOK_SECRET not set, webhook signatures will not be verified")
		}
	} else {
		log.Info("stripe not configured, payment endpoints disabled")
	}

	if cfg.Email.Enabled() {
		integ.Mailer = email.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.FromEmail)
	} else {
		log.Info("resend not configured, quote emails disabled")
	}

	return integ
}
