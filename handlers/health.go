package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/akinalp/sentquote/pkg"
)

// Pinger, veritabanı bağlantısını kontrol eder. *sql.DB bunu karşılar.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler, load balancer / uptime kontrolü için.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler, constructor.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
