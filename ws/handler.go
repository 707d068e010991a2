package ws

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akinalp/sentquote/models"
)

// TokenValidator, WebSocket handler'ın JWT doğrulaması için kullandığı interface.
// services → ws bağımlılığı olduğu için ws services'i import edemez;
// authService bu interface'i implicit olarak karşılar.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.TokenClaims, error)
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	upgrader       websocket.Upgrader
}

// NewHandler, yeni bir WebSocket handler oluşturur.
// allowedOrigins boşsa tüm origin'ler kabul edilir (development).
func NewHandler(hub *Hub, tokenValidator TokenValidator, allowedOrigins []string) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker, Origin header'ı CORS listesindeki origin'lerle karşılaştırır.
// Origin header'ı olmayan (tarayıcı dışı) istemciler kabul edilir.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return set[u.Scheme+"://"+u.Host]
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcılar WebSocket upgrade'inde Authorization header gönderemez,
// token query parameter olarak gelir:
//
//	ws://server/ws?token=JWT_TOKEN
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade kendi hata yanıtını yazar.
		h.hub.log.Debug("upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufferSize),
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump() // bağlantı kapanana kadar bloklar
}
