package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3 = 90s.
	pongWait = 90 * time.Second

	// maxMessageSize: Client sadece heartbeat gönderir.
	maxMessageSize = 1024

	// sendBufferSize: Doluysa (client yavaş) client disconnect edilir.
	sendBufferSize = 64
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Her bağlantı için iki goroutine çalışır: ReadPump client'tan okur,
// WritePump send channel'ından WebSocket'e yazar. gorilla/websocket aynı
// anda sadece bir okuyucu ve bir yazıcı destekler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	mu     sync.Mutex // conn.WriteMessage çağrılarını korur
}

// ReadPump, bağlantı kapanana kadar gelen mesajları okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("unexpected close", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.hub.log.Debug("invalid message", zap.String("user_id", c.userID), zap.Error(err))
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	default:
		c.hub.log.Debug("unknown op", zap.String("user_id", c.userID), zap.String("op", event.Op))
	}
}

// sendEvent, bu client'a tek bir event gönderir. Buffer doluysa bağlantı düşürülür.
func (c *Client) sendEvent(event Event) {
	data, err := c.hub.encode(event)
	if err != nil {
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	// send sadece hub lock'u altında kapatılır; kayıtlı değilse kapanmış olabilir.
	if !c.hub.clients[c.userID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
		go c.hub.drop(c)
	}
}

// WritePump, send channel'ından gelen mesajları WebSocket'e yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Channel kapatıldı: Hub client'ı çıkardı veya kapanıyor.
	_ = c.writeMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
