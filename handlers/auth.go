// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/pkg/ratelimit"
	"github.com/akinalp/sentquote/services"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
	ips          *ratelimit.IPResolver
}

// NewAuthHandler, constructor.
// loginLimiter nil ise rate limiting devre dışı kalır. ips nil ise
// limiter anahtarı bağlantının adresidir.
func NewAuthHandler(
	authService services.AuthService,
	loginLimiter *ratelimit.LoginRateLimiter,
	ips *ratelimit.IPResolver,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		ips:          ips,
	}
}

// Register godoc
// POST /api/auth/register
// Response: 201 { "token": "...", "user": {...} }
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}

// Login godoc
// POST /api/auth/login
//
// IP bazlı brute-force koruması: pencere içindeki deneme sayısı aşılırsa
// 429 + Retry-After döner. Başarılı login sayacı sıfırlar.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := h.ips.ClientIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Me godoc
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	user, err := h.authService.Me(r.Context(), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}
