package handlers

import (
	"net/http"

	"github.com/akinalp/sentquote/pkg"
	"github.com/akinalp/sentquote/services"
)

// StatsHandler, dashboard özet endpoint'i.
type StatsHandler struct {
	statsService services.StatsService
}

// NewStatsHandler, constructor. main.go'da wire-up edilir.
func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard godoc
// GET /api/stats
// Response: { "success": true, "data": { "total_quotes": 3, ..., "recent_events": [...] } }
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		pkg.Error(w, pkg.ErrUnauthorized)
		return
	}

	stats, err := h.statsService.Dashboard(r.Context(), claims.UserID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}
