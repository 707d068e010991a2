package models

import (
	"encoding/json"
	"time"
)

// QuoteEventType, teklif zaman çizelgesindeki olay türü.
type QuoteEventType string

const (
	EventSent     QuoteEventType = "sent"
	EventViewed   QuoteEventType = "viewed"
	EventAccepted QuoteEventType = "accepted"
	EventPaid     QuoteEventType = "paid"
)

// QuoteEvent, append-only olay kaydı. Metadata serbest JSON objesidir
// (ör: paid için {"amount": 11000, "payment_intent": "pi_..."}).
type QuoteEvent struct {
	ID        int64           `json:"id"`
	QuoteID   string          `json:"quote_id"`
	EventType QuoteEventType  `json:"event_type"`
	Metadata  json.RawMessage `json:"metadata"`
	IPAddress string          `json:"ip_address"`
	UserAgent string          `json:"user_agent"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecentEvent, dashboard'daki son olaylar listesi için teklif
// başlığı ve müşteri adı ile zenginleştirilmiş event.
type RecentEvent struct {
	QuoteEvent
	QuoteTitle string `json:"quote_title"`
	ClientName string `json:"client_name"`
}
