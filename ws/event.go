// Package ws, teklif sahibinin dashboard'una canlı bildirim gönderir.
//
// Mimari:
// - Hub: Tüm bağlantıları kullanıcı bazında tutan merkezi yapı
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Müşteri public linki açar / kabul eder / öder → HTTP → Service → DB
// 2. Service, commit sonrası EventPublisher.BroadcastToUser(ownerID, ...) çağırır
// 3. Hub, event'i sahibin tüm bağlantılarına (birden fazla tab) iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesaj.
//
// Seq, her outbound event'e verilen artan sayı; frontend kayıp event
// tespiti için takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir
)

// Server → Client
const (
	OpReady         = "ready"
	OpHeartbeatAck  = "heartbeat_ack"
	OpQuoteViewed   = "quote_viewed"
	OpQuoteAccepted = "quote_accepted"
	OpQuotePaid     = "quote_paid"
)

// ReadyData, bağlantı kurulduğunda gönderilen ilk event'in payload'ı.
type ReadyData struct {
	UserID string `json:"user_id"`
}

// QuoteActivityData, quote_viewed / quote_accepted / quote_paid payload'ı.
// Amount sadece quote_paid'de doludur (minor unit).
type QuoteActivityData struct {
	QuoteID    string `json:"quote_id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	ClientName string `json:"client_name"`
	Amount     int64  `json:"amount,omitempty"`
	Currency   string `json:"currency,omitempty"`
	ViewCount  int    `json:"view_count,omitempty"`
}
