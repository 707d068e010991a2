package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/pkg/cache"
	"github.com/akinalp/sentquote/pkg/payment"
	"github.com/akinalp/sentquote/repository"
	"github.com/akinalp/sentquote/ws"
	"go.uber.org/zap"
)

// WebhookDedupTTL, işlenmiş webhook event ID'lerinin hatırlanma süresi.
// Stripe tekrar denemelerini bu pencere içinde gönderir.
const WebhookDedupTTL = 24 * time.Hour

// PaymentService, müşteri ödemesini başlatır ve Stripe webhook'larını
// teklif durumuyla uzlaştırır.
type PaymentService interface {
	// InitiatePayment, checkout session oluşturur ve yönlendirme URL'ini döner.
	InitiatePayment(ctx context.Context, slug string) (string, error)
	// ReconcileWebhook, imzalı webhook'u işler. Hatalı imza/payload
	// ErrBadRequest döner; bilinmeyen event'ler sessizce kabul edilir.
	ReconcileWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	stores    *repository.Stores
	tx        repository.Transactor
	gateway   payment.Gateway // nil ise ödeme yapılandırılmamış
	publisher ws.EventPublisher
	processed *cache.TTLCache[string, time.Time]
	appURL    string
	now       func() time.Time
	log       *zap.Logger
}

// NewPaymentService, constructor. gateway nil olabilir; bu durumda
// InitiatePayment ErrPaymentsNotConfigured döner ve webhook'lar işlenmeden kabul edilir.
// processed, main tarafından oluşturulup kapatılan dedup cache'idir.
func NewPaymentService(
	stores *repository.Stores,
	tx repository.Transactor,
	gateway payment.Gateway,
	publisher ws.EventPublisher,
	processed *cache.TTLCache[string, time.Time],
	appURL string,
) PaymentService {
	if publisher == nil {
		publisher = ws.NopPublisher{}
	}
	return &paymentService{
		stores:    stores,
		tx:        tx,
		gateway:   gateway,
		publisher: publisher,
		processed: processed,
		appURL:    appURL,
		now:       time.Now,
		log:       zap.L().Named("payments"),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, slug string) (string, error) {
	if s.gateway == nil {
		return "", pkg.ErrPaymentsNotConfigured
	}

	quote, err := s.stores.Quotes.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if !quote.Status.Payable() {
		return "", fmt.Errorf("%w: quote not available for payment", pkg.ErrNotFound)
	}

	owner, err := s.stores.Users.GetByID(ctx, quote.UserID)
	if err != nil {
		return "", err
	}
	business := owner.BusinessName
	if business == "" {
		business = "SentQuote"
	}

	name := quote.Title
	if quote.DepositAmount > 0 {
		name += " (Deposit)"
	}

	link := s.appURL + "/q/" + quote.Slug
	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Mode:          payment.ModePayment,
		ProductName:   name,
		Description:   "Quote from " + business,
		Amount:        quote.PaymentAmount(),
		Currency:      quote.Currency,
		CustomerEmail: quote.ClientEmail,
		SuccessURL:    link + "?paid=true",
		CancelURL:     link + "?cancelled=true",
		Metadata: map[string]string{
			payment.MetaQuoteID:   quote.ID,
			payment.MetaQuoteSlug: quote.Slug,
		},
	})
	if err != nil {
		s.log.Error("checkout session failed", zap.String("quote_id", quote.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %s", pkg.ErrPaymentSetup, "could not create checkout session")
	}

	return session.URL, nil
}

func (s *paymentService) ReconcileWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		s.log.Debug("webhook ignored, payments not configured")
		return nil
	}

	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if event.ID != "" && s.processed != nil {
		if !s.processed.SetIfAbsent(event.ID, s.now()) {
			s.log.Info("duplicate webhook skipped", zap.String("event_id", event.ID))
			return nil
		}
	}

	if err := s.dispatch(ctx, event); err != nil {
		// ID unutulur; Stripe'ın tekrar denemesi yeniden işlenir.
		if event.ID != "" && s.processed != nil {
			s.processed.Delete(event.ID)
		}
		return err
	}
	return nil
}

func (s *paymentService) dispatch(ctx context.Context, event *payment.WebhookEvent) error {
	switch {
	case event.Type == payment.EventCheckoutCompleted && event.Checkout != nil:
		checkout := event.Checkout
		if quoteID := checkout.Metadata[payment.MetaQuoteID]; quoteID != "" {
			return s.markQuotePaid(ctx, quoteID, checkout)
		}
		if userID := checkout.Metadata[payment.MetaUserID]; userID != "" {
			return s.upgradePlan(ctx, userID)
		}
		s.log.Info("checkout completed without quote metadata", zap.String("session_id", checkout.SessionID))
		return nil

	case event.Type == payment.EventAccountUpdated && event.Account != nil:
		return s.syncAccount(ctx, event.Account)

	default:
		s.log.Debug("webhook event ignored", zap.String("type", event.Type))
		return nil
	}
}

// markQuotePaid, teklifi paid yapar, "paid" event'ini yazar ve pending
// takipleri iptal eder. Teklif yoksa veya artık ödenebilir değilse
// (ör: zaten paid) hiçbir şey değişmez.
func (s *paymentService) markQuotePaid(ctx context.Context, quoteID string, checkout *payment.CheckoutCompleted) error {
	quote, err := s.stores.Quotes.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			s.log.Warn("webhook for unknown quote", zap.String("quote_id", quoteID))
			return nil
		}
		return err
	}

	metadata, err := json.Marshal(map[string]any{
		"amount":         checkout.AmountTotal,
		"payment_intent": checkout.PaymentIntent,
	})
	if err != nil {
		return fmt.Errorf("failed to encode paid metadata: %w", err)
	}

	now := s.now().UTC()
	skipped := false
	err = s.tx.WithinTx(ctx, func(tx *repository.Stores) error {
		if err := tx.Quotes.MarkPaid(ctx, quote.ID, checkout.AmountTotal, checkout.PaymentIntent, now); err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				skipped = true
				return nil
			}
			return err
		}
		if err := tx.Events.Create(ctx, &models.QuoteEvent{
			QuoteID:   quote.ID,
			EventType: models.EventPaid,
			Metadata:  metadata,
		}); err != nil {
			return err
		}
		_, err := tx.Followups.CancelPending(ctx, quote.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark quote paid: %w", err)
	}
	if skipped {
		s.log.Info("quote not payable, webhook acknowledged",
			zap.String("quote_id", quote.ID), zap.String("status", string(quote.Status)))
		return nil
	}

	s.log.Info("quote paid",
		zap.String("quote_id", quote.ID),
		zap.Int64("amount", checkout.AmountTotal),
		zap.String("payment_intent", checkout.PaymentIntent),
	)

	s.publisher.BroadcastToUser(quote.UserID, ws.Event{
		Op: ws.OpQuotePaid,
		Data: ws.QuoteActivityData{
			QuoteID:    quote.ID,
			Slug:       quote.Slug,
			Title:      quote.Title,
			ClientName: quote.ClientName,
			Amount:     checkout.AmountTotal,
			Currency:   quote.Currency,
		},
	})
	return nil
}

// upgradePlan, abonelik checkout'u tamamlanan kullanıcıyı pro yapar.
func (s *paymentService) upgradePlan(ctx context.Context, userID string) error {
	if err := s.stores.Users.UpdatePlan(ctx, userID, models.PlanPro); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			s.log.Warn("subscription webhook for unknown user", zap.String("user_id", userID))
			return nil
		}
		return err
	}
	s.log.Info("user upgraded to pro", zap.String("user_id", userID))
	return nil
}

// syncAccount, onboarding'i tamamlanmış (charges_enabled) Connect
// hesabının sahibini bağlı olarak işaretler.
func (s *paymentService) syncAccount(ctx context.Context, account *payment.AccountUpdate) error {
	if !account.ChargesEnabled {
		return nil
	}
	if err := s.stores.Users.MarkStripeConnected(ctx, account.AccountID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			s.log.Warn("account.updated for unknown account", zap.String("account_id", account.AccountID))
			return nil
		}
		return err
	}
	s.log.Info("stripe account connected", zap.String("account_id", account.AccountID))
	return nil
}
