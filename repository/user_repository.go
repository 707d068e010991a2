// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz; bu paketteki interface'ler
// üzerinden çalışır. Testlerde interface'lerin in-memory fake'leri
// kullanılır, production'da sqlite_*.go implementasyonları.
package repository

import (
	"context"

	"github.com/akinalp/sentquote/models"
)

// UserRepository, kullanıcı (hesap sahibi) veritabanı işlemleri.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// SetStripeAccount, Stripe Connect hesap ID'sini kaydeder.
	SetStripeAccount(ctx context.Context, userID, accountID string) error
	// MarkStripeConnected, account.updated webhook'unda charges_enabled
	// geldiğinde hesabın sahibini bağlı olarak işaretler.
	MarkStripeConnected(ctx context.Context, accountID string) error
	UpdatePlan(ctx context.Context, userID string, plan models.UserPlan) error
}
