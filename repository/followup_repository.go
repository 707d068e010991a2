package repository

import (
	"context"
	"time"

	"github.com/akinalp/sentquote/models"
)

// FollowupRepository, zamanlanmış takip mesajı kayıtları.
// Satırları "sent"e geçiren bir dispatcher yoktur.
type FollowupRepository interface {
	Create(ctx context.Context, followup *models.Followup) error
	ListByQuote(ctx context.Context, quoteID string) ([]models.Followup, error)
	// CancelPending, teklifin pending takiplerini cancelled yapar ve
	// etkilenen satır sayısını döner.
	CancelPending(ctx context.Context, quoteID string) (int64, error)
	// ListPending, pending takipleri scheduled_at sırasıyla döner.
	// dueBefore nil değilse sadece o ana kadar vadesi gelenler.
	ListPending(ctx context.Context, dueBefore *time.Time) ([]models.DueFollowup, error)
	DeleteByQuote(ctx context.Context, quoteID string) error
}
