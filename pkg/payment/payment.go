// Package payment, ödeme sağlayıcısını (Stripe) service katmanından soyutlar.
//
// Service'ler Gateway interface'ine bağımlıdır; testlerde fake gateway,
// production'da Stripe implementasyonu kullanılır. Webhook payload'ları
// sağlayıcıdan bağımsız WebhookEvent'e çevrilir.
package payment

import (
	"context"
	"errors"
)

// ErrInvalidWebhook, imza doğrulaması veya JSON parse başarısız olduğunda döner.
var ErrInvalidWebhook = errors.New("invalid webhook payload")

// Event türleri.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventAccountUpdated    = "account.updated"
)

// Metadata anahtarları. Checkout session'a yazılır, webhook'ta geri okunur.
const (
	MetaQuoteID   = "quote_id"
	MetaQuoteSlug = "quote_slug"
	MetaUserID    = "user_id"
)

// CheckoutMode, tek seferlik ödeme veya abonelik.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

// CheckoutRequest, tek kalemli bir checkout session isteği.
// Amount minor unit'tir. Interval sadece abonelikte kullanılır (ör: "month").
type CheckoutRequest struct {
	Mode          CheckoutMode
	ProductName   string
	Description   string
	Amount        int64
	Currency      string
	Interval      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession, oluşturulan session'ın müşterinin yönlendirileceği URL'i.
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent, doğrulanmış ve parse edilmiş webhook.
// Type'a göre Checkout veya Account doludur; diğer türlerde ikisi de nil.
type WebhookEvent struct {
	ID       string
	Type     string
	Checkout *CheckoutCompleted
	Account  *AccountUpdate
}

// CheckoutCompleted, checkout.session.completed event'inin ihtiyaç duyulan alanları.
type CheckoutCompleted struct {
	SessionID     string
	Metadata      map[string]string
	AmountTotal   int64
	PaymentIntent string
}

// AccountUpdate, account.updated event'inin ihtiyaç duyulan alanları.
type AccountUpdate struct {
	AccountID      string
	ChargesEnabled bool
}

// Gateway, ödeme sağlayıcısı ile konuşan interface.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// CreateConnectedAccount, satıcı için Express hesap açar ve ID'sini döner.
	CreateConnectedAccount(ctx context.Context, email string) (string, error)
	// CreateOnboardingLink, Express hesap onboarding URL'i üretir.
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	// ParseWebhook, imzayı doğrular (secret tanımlıysa) ve event'i çözer.
	// Hatalı imza veya payload'da ErrInvalidWebhook ile sarılmış hata döner.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
