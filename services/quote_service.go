package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/pkg/email"
	"github.com/akinalp/sentquote/repository"
	"go.uber.org/zap"
)

// Teklif detayında gösterilen en fazla event sayısı.
const quoteDetailEventLimit = 50

// followupPlan, teklif gönderildiğinde planlanan hatırlatmalar.
// Bunları gönderen bir dispatcher yoktur; satırlar sadece kayıttır.
var followupPlan = []struct {
	after   time.Duration
	message string
}{
	{3 * 24 * time.Hour, "Just checking in on the quote I sent, happy to answer any questions!"},
	{7 * 24 * time.Hour, "Wanted to make sure you saw my quote before it expires. Let me know if you need any changes!"},
}

// QuoteService, teklif sahibinin (giriş yapmış kullanıcı) işlemleri.
// Tüm metotlar sahiplik kontrolü yapar; başkasının teklifi NotFound döner.
type QuoteService interface {
	Create(ctx context.Context, userID string, req *models.CreateQuoteRequest) (*models.Quote, error)
	Update(ctx context.Context, id, userID string, req *models.UpdateQuoteRequest) (*models.Quote, error)
	Send(ctx context.Context, id, userID string) (*models.Quote, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, userID string) ([]models.Quote, error)
	Get(ctx context.Context, id, userID string) (*models.QuoteDetail, error)
	// DueFollowups, pending takip mesajlarını listeler. all=false ise
	// sadece vadesi gelenler (scheduled_at ≤ now). Hiçbir satırı değiştirmez.
	DueFollowups(ctx context.Context, all bool) ([]models.DueFollowup, error)
}

type quoteService struct {
	stores *repository.Stores
	tx     repository.Transactor
	mailer email.QuoteMailer // nil ise email adımı atlanır
	appURL string
	now    func() time.Time
	log    *zap.Logger
}

// NewQuoteService, constructor. mailer nil olabilir.
func NewQuoteService(
	stores *repository.Stores,
	tx repository.Transactor,
	mailer email.QuoteMailer,
	appURL string,
) QuoteService {
	return &quoteService{
		stores: stores,
		tx:     tx,
		mailer: mailer,
		appURL: appURL,
		now:    time.Now,
		log:    zap.L().Named("quotes"),
	}
}

// Create, draft statüsünde yeni teklif oluşturur. Slug çakışması olursa
// yeni slug ile birkaç kez tekrar denenir.
func (s *quoteService) Create(ctx context.Context, userID string, req *models.CreateQuoteRequest) (*models.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	quote := &models.Quote{
		UserID:         userID,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		Title:          req.Title,
		Description:    req.Description,
		LineItems:      req.LineItems,
		TaxRate:        req.TaxRate,
		DepositPercent: req.DepositPercent,
		Currency:       req.Currency,
		Notes:          req.Notes,
		Status:         models.QuoteStatusDraft,
	}
	if req.ValidDays != nil {
		quote.ValidUntil = s.validUntil(*req.ValidDays)
	}
	if err := applyTotals(quote); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= slugAttempts; attempt++ {
		slug, err := newSlug()
		if err != nil {
			return nil, err
		}
		quote.Slug = slug

		err = s.stores.Quotes.Create(ctx, quote)
		if err == nil {
			return quote, nil
		}
		if !errors.Is(err, pkg.ErrAlreadyExists) {
			return nil, err
		}
		s.log.Warn("slug collision, retrying", zap.String("slug", slug), zap.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("failed to allocate a unique slug after %d attempts", slugAttempts)
}

// Update, body'de gelen alanları mevcut teklifin üzerine yazar.
// Para alanları sadece line_items, tax_rate veya deposit_percent
// gönderildiğinde yeniden hesaplanır.
func (s *quoteService) Update(ctx context.Context, id, userID string, req *models.UpdateQuoteRequest) (*models.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	quote, err := s.stores.Quotes.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// Null gönderilen alanlarda Value sıfır değerdir; description/notes
	// "" olur, oranlar 0 olur.
	if req.ClientName.Set {
		quote.ClientName = req.ClientName.Value
	}
	if req.ClientEmail.Set {
		quote.ClientEmail = req.ClientEmail.Value
	}
	if req.Title.Set {
		quote.Title = req.Title.Value
	}
	if req.Description.Set {
		quote.Description = req.Description.Value
	}
	if req.Notes.Set {
		quote.Notes = req.Notes.Value
	}
	if req.Currency.Set {
		quote.Currency = req.Currency.Value
	}
	if req.LineItems.Set {
		quote.LineItems = req.LineItems.Value
	}
	if req.TaxRate.Set {
		quote.TaxRate = req.TaxRate.Value
	}
	if req.DepositPercent.Set {
		quote.DepositPercent = req.DepositPercent.Value
	}
	if req.ValidDays.Set {
		quote.ValidUntil = nil
		if req.ValidDays.Present() {
			quote.ValidUntil = s.validUntil(req.ValidDays.Value)
		}
	}

	if req.RecomputesTotals() {
		if err := applyTotals(quote); err != nil {
			return nil, err
		}
	}

	if err := s.stores.Quotes.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// Send, teklifi müşteriye gönderir: status sent olur, "sent" event'i
// yazılır ve +3 / +7 günlük iki takip mesajı planlanır.
//
// Tekrar gönderimde eski pending takipler iptal edilip yerine iki yenisi
// yazılır; bir teklifin aynı anda en fazla iki pending takibi olur.
// Kabul edilmiş veya ödenmiş teklif tekrar gönderilemez (Conflict).
func (s *quoteService) Send(ctx context.Context, id, userID string) (*models.Quote, error) {
	quote, err := s.stores.Quotes.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if quote.Status.Rank() > models.QuoteStatusSent.Rank() {
		return nil, fmt.Errorf("%w: quote is already %s", pkg.ErrAlreadyExists, quote.Status)
	}

	now := s.now().UTC()
	err = s.tx.WithinTx(ctx, func(tx *repository.Stores) error {
		if err := tx.Quotes.MarkSent(ctx, quote.ID, now); err != nil {
			return err
		}
		if err := tx.Events.Create(ctx, &models.QuoteEvent{
			QuoteID:   quote.ID,
			EventType: models.EventSent,
		}); err != nil {
			return err
		}
		if _, err := tx.Followups.CancelPending(ctx, quote.ID); err != nil {
			return err
		}
		for _, plan := range followupPlan {
			if err := tx.Followups.Create(ctx, &models.Followup{
				QuoteID:     quote.ID,
				ScheduledAt: now.Add(plan.after),
				Message:     plan.message,
				Status:      models.FollowupPending,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send quote: %w", err)
	}

	quote.Status = models.QuoteStatusSent
	quote.UpdatedAt = now

	s.notifyClient(ctx, quote)
	return quote, nil
}

// notifyClient, mailer tanımlıysa müşteriye public linki gönderir.
// Teklif zaten gönderilmiş sayılır; email hatası sadece loglanır.
func (s *quoteService) notifyClient(ctx context.Context, quote *models.Quote) {
	if s.mailer == nil {
		return
	}

	owner, err := s.stores.Users.GetByID(ctx, quote.UserID)
	if err != nil {
		s.log.Warn("failed to load quote owner for email", zap.String("quote_id", quote.ID), zap.Error(err))
		return
	}

	msg := email.QuoteEmail{
		To:           quote.ClientEmail,
		ClientName:   quote.ClientName,
		BusinessName: owner.BusinessName,
		Title:        quote.Title,
		Amount:       FormatAmount(quote.Total, quote.Currency),
		Link:         s.appURL + "/q/" + quote.Slug,
	}
	if err := s.mailer.SendQuote(ctx, msg); err != nil {
		s.log.Warn("failed to email quote", zap.String("quote_id", quote.ID), zap.Error(err))
		return
	}
	s.log.Info("quote emailed", zap.String("quote_id", quote.ID))
}

// Delete, teklifi event'leri ve takipleriyle birlikte tek transaction'da siler.
// Status fark etmez.
func (s *quoteService) Delete(ctx context.Context, id, userID string) error {
	return s.tx.WithinTx(ctx, func(tx *repository.Stores) error {
		// Sahiplik kontrolü: başkasının teklifinin event'lerine dokunma.
		if _, err := tx.Quotes.GetByIDForUser(ctx, id, userID); err != nil {
			return err
		}
		if err := tx.Events.DeleteByQuote(ctx, id); err != nil {
			return err
		}
		if err := tx.Followups.DeleteByQuote(ctx, id); err != nil {
			return err
		}
		return tx.Quotes.Delete(ctx, id, userID)
	})
}

func (s *quoteService) List(ctx context.Context, userID string) ([]models.Quote, error) {
	return s.stores.Quotes.ListByUser(ctx, userID)
}

func (s *quoteService) Get(ctx context.Context, id, userID string) (*models.QuoteDetail, error) {
	quote, err := s.stores.Quotes.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.stores.Events.ListByQuote(ctx, quote.ID, quoteDetailEventLimit)
	if err != nil {
		return nil, err
	}

	followups, err := s.stores.Followups.ListByQuote(ctx, quote.ID)
	if err != nil {
		return nil, err
	}

	return &models.QuoteDetail{
		Quote:     quote,
		Events:    events,
		Followups: followups,
	}, nil
}

func (s *quoteService) DueFollowups(ctx context.Context, all bool) ([]models.DueFollowup, error) {
	if all {
		return s.stores.Followups.ListPending(ctx, nil)
	}
	now := s.now().UTC()
	return s.stores.Followups.ListPending(ctx, &now)
}

// validUntil, 0 gün "süresiz" demektir.
func (s *quoteService) validUntil(days int) *time.Time {
	if days <= 0 {
		return nil
	}
	t := s.now().UTC().AddDate(0, 0, days)
	return &t
}
