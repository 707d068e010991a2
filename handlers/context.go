package handlers

import (
	"context"

	"github.com/akinalp/sentquote/models"
)

// contextKey, context'te değer taşımak için kullanılan key tipi.
// Düz string yerine özel tip: başka paketlerin key'leriyle çakışmaz.
type contextKey string

// UserContextKey altında auth middleware'ın doğruladığı *models.TokenClaims durur.
const UserContextKey contextKey = "user"

// ClaimsFromContext, auth middleware'ın context'e koyduğu claims'i döner.
func ClaimsFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.TokenClaims)
	return claims, ok && claims != nil
}

// WithClaims, claims'i context'e ekler. Middleware ve testler kullanır.
func WithClaims(ctx context.Context, claims *models.TokenClaims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}
