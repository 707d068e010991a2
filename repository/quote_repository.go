package repository

import (
	"context"
	"time"

	"github.com/akinalp/sentquote/models"
)

// QuoteRepository, teklif veritabanı işlemleri.
//
// Sahip kontrolü (user_id) sorgunun içinde yapılır: başka kullanıcının
// teklifi "yok" sayılır ve ErrNotFound döner.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Quote, error)
	GetBySlug(ctx context.Context, slug string) (*models.Quote, error)
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	ListByUser(ctx context.Context, userID string) ([]models.Quote, error)
	// Update, düzenlenebilir alanları ve para alanlarını yazar.
	// Status, slug ve ödeme alanlarına dokunmaz.
	Update(ctx context.Context, quote *models.Quote) error
	Delete(ctx context.Context, id, userID string) error

	// MarkSent, status'ü sent yapar. Sadece draft veya sent teklifte çalışır.
	MarkSent(ctx context.Context, id string, at time.Time) error
	// MarkAccepted, koşullu geçiş: sadece status = 'sent' ise.
	MarkAccepted(ctx context.Context, id string, at time.Time) error
	// MarkPaid, koşullu geçiş: sadece status sent veya accepted ise.
	MarkPaid(ctx context.Context, id string, amount int64, paymentIntent string, at time.Time) error
	// RecordView, view_count'u artırır; first_viewed_at sadece ilk seferde set edilir.
	RecordView(ctx context.Context, id string, at time.Time) error

	// Summary, dashboard sayılarını hesaplar (recent_events hariç).
	Summary(ctx context.Context, userID string) (*models.DashboardStats, error)
}
