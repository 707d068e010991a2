// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Error'lar sabit değişkenlerdir; service katmanı bunları
// fmt.Errorf("%w: ...") ile detaylandırarak döner, handler katmanı
// errors.Is() ile HTTP status code'a çevirir:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler (bkz. response.go).
var (
	// ErrBadRequest — eksik veya hatalı input (ValidationError).
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized — token yok, header bozuk veya kimlik bilgileri yanlış.
	ErrUnauthorized = errors.New("unauthenticated")

	// ErrInvalidToken — imza geçersiz veya token'ın süresi dolmuş.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound — kayıt yok, sahibi farklı veya status ön koşulu sağlanmıyor.
	// "Quote zaten kabul edilmiş" durumu da bilinçli olarak NotFound döner.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — unique constraint çakışması (Conflict).
	ErrAlreadyExists = errors.New("already exists")

	ErrTooManyRequests = errors.New("too many requests")

	// ErrPaymentSetup — ödeme sağlayıcısı çağrısı başarısız oldu.
	ErrPaymentSetup = errors.New("payment setup failed")

	// ErrPaymentsNotConfigured — STRIPE_SECRET_KEY tanımlı değil.
	ErrPaymentsNotConfigured = errors.New("payments not configured")
)
