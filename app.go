package main

import (
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/middleware"
	"github.com/akinalp/sentquote/pkg/cache"
	"github.com/akinalp/sentquote/pkg/ratelimit"
	"github.com/akinalp/sentquote/services"
	"github.com/akinalp/sentquote/ws"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 2 * time.Minute
)

// App, tamamen bağlanmış HTTP uygulaması. Handler CORS ile sarılmış
// mux'tır; arka plan goroutine'leri Close ile durdurulur.
type App struct {
	Handler http.Handler

	hub          *ws.Hub
	loginLimiter *ratelimit.LoginRateLimiter
	processed    *cache.TTLCache[string, time.Time]
}

// newApp, repository → service → handler → route sırasıyla uygulamayı kurar.
// Hub'ın event loop'u burada başlatılır.
func newApp(cfg *config.Config, db *database.DB, integ Integrations) *App {
	hub := ws.NewHub()
	go hub.Run()

	loginLimiter := ratelimit.NewLoginRateLimiter(loginMaxAttempts, loginWindow)
	processed := cache.New[string, time.Time](services.WebhookDedupTTL, time.Hour)

	repos := initRepositories(db)
	svcs := initServices(cfg, repos, hub, integ, processed)
	h := initHandlers(cfg, db, svcs, hub, loginLimiter)

	mux := http.NewServeMux()
	initRoutes(mux, h, middleware.NewAuthMiddleware(svcs.Auth))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return &App{
		Handler:      corsHandler.Handler(mux),
		hub:          hub,
		loginLimiter: loginLimiter,
		processed:    processed,
	}
}

// Close, WebSocket bağlantılarını kapatır ve temizleme goroutine'lerini durdurur.
func (a *App) Close() {
	a.hub.Shutdown()
	a.loginLimiter.Close()
	a.processed.Close()
}
