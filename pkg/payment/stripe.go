package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// stripeGateway, Gateway'in Stripe implementasyonu.
// Global stripe.Key yerine kendi client.API'sini taşır.
type stripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway, constructor. webhookSecret boşsa webhook imzası
// doğrulanmaz (local development, stripe CLI olmadan test).
func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	return &stripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(req.Currency),
		UnitAmount: stripe.Int64(req.Amount),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(req.ProductName),
		},
	}
	if req.Description != "" {
		priceData.ProductData.Description = stripe.String(req.Description)
	}
	if req.Mode == ModeSubscription {
		interval := req.Interval
		if interval == "" {
			interval = "month"
		}
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(interval),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(req.Mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{PriceData: priceData, Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx

	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create account: %w", err)
	}
	return acct.ID, nil
}

func (g *stripeGateway) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe account link: %w", err)
	}
	return link.URL, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	var (
		event stripe.Event
		err   error
	)
	if g.webhookSecret != "" {
		event, err = webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	} else {
		err = json.Unmarshal(payload, &event)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	return decodeStripeEvent(event)
}

// decodeStripeEvent, bilinen event türlerinin data.object'ini çözer.
// Bilinmeyen türler sadece ID ve Type ile döner.
func decodeStripeEvent(event stripe.Event) (*WebhookEvent, error) {
	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return out, nil
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidWebhook, err)
		}
		completed := &CheckoutCompleted{
			SessionID:   sess.ID,
			Metadata:    sess.Metadata,
			AmountTotal: sess.AmountTotal,
		}
		if sess.PaymentIntent != nil {
			completed.PaymentIntent = sess.PaymentIntent.ID
		}
		out.Checkout = completed

	case stripe.EventTypeAccountUpdated:
		var acct stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
			return nil, fmt.Errorf("%w: account: %v", ErrInvalidWebhook, err)
		}
		out.Account = &AccountUpdate{AccountID: acct.ID, ChargesEnabled: acct.ChargesEnabled}
	}

	return out, nil
}
