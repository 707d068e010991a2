package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/repository"
	"github.com/akinalp/sentquote/ws"
	"go.uber.org/zap"
)

// Visitor, public linki açan müşterinin istek bilgileri.
type Visitor struct {
	IPAddress string
	UserAgent string
}

// PublicQuoteService, müşterinin (giriş yapmamış) slug üzerinden işlemleri.
// Draft teklifler dışarıdan hiç görünmez.
type PublicQuoteService interface {
	View(ctx context.Context, slug string, visitor Visitor) (*models.PublicQuote, error)
	Accept(ctx context.Context, slug string, visitor Visitor) (*models.PublicQuote, error)
}

type publicQuoteService struct {
	stores    *repository.Stores
	tx        repository.Transactor
	publisher ws.EventPublisher
	now       func() time.Time
	log       *zap.Logger
}

// NewPublicQuoteService, constructor.
func NewPublicQuoteService(
	stores *repository.Stores,
	tx repository.Transactor,
	publisher ws.EventPublisher,
) PublicQuoteService {
	if publisher == nil {
		publisher = ws.NopPublisher{}
	}
	return &publicQuoteService{
		stores:    stores,
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
		log:       zap.L().Named("public"),
	}
}

// View, teklifi müşteriye gösterir ve görüntülemeyi kaydeder:
// view_count artar, first_viewed_at ilk seferde set edilir,
// ziyaretçi bilgisiyle "viewed" event'i yazılır.
func (s *publicQuoteService) View(ctx context.Context, slug string, visitor Visitor) (*models.PublicQuote, error) {
	quote, owner, err := s.loadVisible(ctx, slug)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	err = s.tx.WithinTx(ctx, func(tx *repository.Stores) error {
		if err := tx.Quotes.RecordView(ctx, quote.ID, now); err != nil {
			return err
		}
		return tx.Events.Create(ctx, &models.QuoteEvent{
			QuoteID:   quote.ID,
			EventType: models.EventViewed,
			IPAddress: visitor.IPAddress,
			UserAgent: visitor.UserAgent,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record quote view: %w", err)
	}

	s.publish(quote, ws.OpQuoteViewed, ws.QuoteActivityData{ViewCount: quote.ViewCount + 1})

	return models.NewPublicQuote(quote, owner), nil
}

// Accept, müşterinin teklifi kabul etmesi. Sadece "sent" statüsündeki
// teklif kabul edilebilir; draft, accepted veya paid NotFound döner.
// Pending takip mesajları iptal edilir.
func (s *publicQuoteService) Accept(ctx context.Context, slug string, visitor Visitor) (*models.PublicQuote, error) {
	quote, owner, err := s.loadVisible(ctx, slug)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuoteStatusSent {
		return nil, fmt.Errorf("%w: quote not found or already accepted", pkg.ErrNotFound)
	}

	now := s.now().UTC()
	err = s.tx.WithinTx(ctx, func(tx *repository.Stores) error {
		// Koşullu UPDATE: eşzamanlı iki kabulde sadece biri geçer.
		if err := tx.Quotes.MarkAccepted(ctx, quote.ID, now); err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return fmt.Errorf("%w: quote not found or already accepted", pkg.ErrNotFound)
			}
			return err
		}
		if err := tx.Events.Create(ctx, &models.QuoteEvent{
			QuoteID:   quote.ID,
			EventType: models.EventAccepted,
			IPAddress: visitor.IPAddress,
			UserAgent: visitor.UserAgent,
		}); err != nil {
			return err
		}
		_, err := tx.Followups.CancelPending(ctx, quote.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	quote.Status = models.QuoteStatusAccepted
	quote.AcceptedAt = &now

	s.log.Info("quote accepted", zap.String("quote_id", quote.ID))
	s.publish(quote, ws.OpQuoteAccepted, ws.QuoteActivityData{})

	return models.NewPublicQuote(quote, owner), nil
}

// loadVisible, slug'a ait non-draft teklifi ve sahibini döner.
func (s *publicQuoteService) loadVisible(ctx context.Context, slug string) (*models.Quote, *models.User, error) {
	quote, err := s.stores.Quotes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if quote.Status == models.QuoteStatusDraft {
		return nil, nil, fmt.Errorf("%w: quote not found", pkg.ErrNotFound)
	}

	owner, err := s.stores.Users.GetByID(ctx, quote.UserID)
	if err != nil {
		return nil, nil, err
	}
	return quote, owner, nil
}

// publish, teklif bilgilerini data'ya ekleyip sahibin bağlantılarına iletir.
func (s *publicQuoteService) publish(quote *models.Quote, op string, data ws.QuoteActivityData) {
	data.QuoteID = quote.ID
	data.Slug = quote.Slug
	data.Title = quote.Title
	data.ClientName = quote.ClientName
	s.publisher.BroadcastToUser(quote.UserID, ws.Event{Op: op, Data: data})
}
