package repository

import (
	"context"

	"github.com/akinalp/sentquote/models"
)

// EventRepository, append-only teklif olay kayıtları.
type EventRepository interface {
	Create(ctx context.Context, event *models.QuoteEvent) error
	// ListByQuote, en yeni olay önce, en fazla limit kadar.
	ListByQuote(ctx context.Context, quoteID string, limit int) ([]models.QuoteEvent, error)
	// ListRecentByUser, kullanıcının tüm tekliflerindeki son olaylar,
	// teklif başlığı ve müşteri adı ile.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.RecentEvent, error)
	DeleteByQuote(ctx context.Context, quoteID string) error
}
