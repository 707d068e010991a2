package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// EventPublisher, service katmanının sahibe canlı event göndermek için
// kullandığı interface. Service'ler Hub'ın concrete struct'ına değil
// buna bağımlıdır; testlerde kayıt tutan bir fake kullanılır.
type EventPublisher interface {
	BroadcastToUser(userID string, event Event)
}

// NopPublisher, hiçbir şey yapmayan EventPublisher.
type NopPublisher struct{}

func (NopPublisher) BroadcastToUser(string, Event) {}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
//
// Hub.Run() goroutine'i register/unregister channel'larından select ile okur;
// broadcast'ler RLock altında doğrudan client'ların send buffer'ına yazılır.
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla tab'ı olabilir).
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	// done, Shutdown ile kapatılır. Run döner, bekleyen register/unregister
	// gönderimleri bloklanmaz.
	done     chan struct{}
	stopOnce sync.Once

	seq atomic.Int64
	log *zap.Logger
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        zap.L().Named("ws"),
	}
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// addClient, client'ı ekler ve ilk event olarak ready'yi kuyruğa koyar.
// Ready alındığında client'ın broadcast'lere kayıtlı olduğu garantidir.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	if data, err := h.encode(Event{Op: OpReady, Data: ReadyData{UserID: client.userID}}); err == nil {
		client.send <- data // buffer boş, bloklamaz
	}

	h.log.Debug("client connected",
		zap.String("user_id", client.userID), zap.Int("connections", len(h.clients[client.userID])))
}

// removeClient, client'ı çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	h.log.Debug("client disconnected",
		zap.String("user_id", client.userID), zap.Int("remaining", len(clients)))
}

// drop, client'ı Run goroutine'i üzerinden çıkarır. Hub kapanmışsa no-op.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) encode(event Event) ([]byte, error) {
	event.Seq = h.seq.Add(1)
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// BroadcastToUser, belirli bir kullanıcının tüm bağlantılarına event gönderir.
// Buffer'ı dolu (yavaş) client'lar bağlantıdan düşürülür.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	data, err := h.encode(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			go h.drop(client)
		}
	}
}

// ConnectionCount, kullanıcının açık bağlantı sayısı.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Shutdown, tüm client bağlantılarını kapatır ve Run'ı durdurur.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, clients := range h.clients {
			for client := range clients {
				close(client.send)
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		h.log.Info("hub shut down, all connections closed")
	})
}
