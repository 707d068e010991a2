package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT token'ın içindeki veriler (payload).
//
// Server her request'te bu token'ı doğrular; DB'ye gitmeden
// kullanıcının kim olduğunu bilir. Middleware, ws ve services
// katmanları tarafından kullanıldığı için models'te tanımlıdır.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
