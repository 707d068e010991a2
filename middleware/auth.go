// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Hata varsa next'i çağırmaz; request burada durur.
package middleware

import (
	"net/http"
	"strings"

	"github.com/akinalp/sentquote/handlers"
	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
)

// TokenValidator, auth middleware'ın ihtiyaç duyduğu tek metot.
// services.AuthService bunu karşılar.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.TokenClaims, error)
}

// AuthMiddleware, JWT token doğrulama middleware'ı.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Require, JWT token zorunlu kılan middleware.
//
// HTTP header formatı: Authorization: Bearer <token>
//
//   - header yok veya format bozuk → 401 "unauthenticated"
//   - imza geçersiz / süresi dolmuş → 401 "invalid token: ..."
//
// Kullanıcılar silinmediği için DB'ye gidilmez; claims doğrudan
// context'e konur (handlers.UserContextKey).
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			pkg.Error(w, pkg.ErrUnauthorized)
			return
		}

		claims, err := m.validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			pkg.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithClaims(r.Context(), claims)))
	})
}
