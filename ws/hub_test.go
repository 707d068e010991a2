package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akinalp/sentquote/models"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*models.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &models.TokenClaims{UserID: "user-1", Email: "owner@example.com"}, nil
}

func startServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, stubValidator{}, nil).HandleConnection))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	return event
}

func TestHandshakeRejectsBadToken(t *testing.T) {
	_, url := startServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=bad", nil)
	if err == nil {
		t.Fatal("dial with bad token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp = %v", resp)
	}
}

func TestReadyHeartbeatAndBroadcast(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if ev := readEvent(t, conn); ev.Op != OpReady {
		t.Fatalf("first op = %s, want ready", ev.Op)
	}
	if hub.ConnectionCount("user-1") != 1 {
		t.Fatalf("connections = %d", hub.ConnectionCount("user-1"))
	}

	if err := conn.WriteJSON(Event{Op: OpHeartbeat}); err != nil {
		t.Fatal(err)
	}
	if ev := readEvent(t, conn); ev.Op != OpHeartbeatAck {
		t.Fatalf("op = %s, want heartbeat_ack", ev.Op)
	}

	hub.BroadcastToUser("someone-else", Event{Op: OpQuoteViewed})
	hub.BroadcastToUser("user-1", Event{Op: OpQuotePaid, Data: QuoteActivityData{QuoteID: "q1", Amount: 11000}})

	ev := readEvent(t, conn)
	if ev.Op != OpQuotePaid {
		t.Fatalf("op = %s, want quote_paid", ev.Op)
	}
	data, ok := ev.Data.(map[string]any)
	if !ok || data["quote_id"] != "q1" || data["amount"] != float64(11000) {
		t.Fatalf("data = %#v", ev.Data)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})

	r := httptest.NewRequest("GET", "/ws", nil)
	if !check(r) {
		t.Error("requests without Origin are allowed")
	}
	r.Header.Set("Origin", "http://localhost:5173")
	if !check(r) {
		t.Error("listed origin rejected")
	}
	r.Header.Set("Origin", "https://evil.example")
	if check(r) {
		t.Error("unlisted origin accepted")
	}
}

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}
	p.BroadcastToUser("anyone", Event{Op: OpQuoteViewed})
}
