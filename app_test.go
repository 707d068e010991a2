package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/pkg/payment"
)

// stubGateway, webhook payload'ını doğrudan payment.WebhookEvent olarak çözer.
type stubGateway struct {
	checkouts []payment.CheckoutRequest
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.checkouts = append(g.checkouts, req)
	return &payment.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
}

func (g *stubGateway) CreateConnectedAccount(context.Context, string) (string, error) {
	return "acct_1", nil
}

func (g *stubGateway) CreateOnboardingLink(_ context.Context, accountID, _, _ string) (string, error) {
	return "https://connect.test/" + accountID, nil
}

func (g *stubGateway) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != "ok" {
		return nil, errors.New("signature mismatch")
	}
	var event payment.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T, integ Integrations) *testServer {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "app.db"), database.Migrations())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{AppURL: "https://app.test"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpiryDays: 1},
		Stripe: config.StripeConfig{ProAmount: 2900, Currency: "usd"},
	}

	app := newApp(cfg, db, integ)
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})

	return &testServer{t: t, srv: srv}
}

// do, isteği gönderir ve envelope'u çözer. out nil değilse Data oraya açılır.
func (s *testServer) do(method, path, token string, body any, out any) int {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}

	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	if err != nil {
		s.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.Client().Do(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		s.t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if out != nil && env.Success {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: unmarshal data: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	var result struct {
		Token string `json:"token"`
	}
	code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":         email,
		"password":      "correct-horse",
		"business_name": "Acme Studio",
	}, &result)
	if code != http.StatusCreated || result.Token == "" {
		s.t.Fatalf("register: status %d", code)
	}
	return result.Token
}

func TestQuoteLifecycleEndToEnd(t *testing.T) {
	gw := &stubGateway{}
	s := newTestServer(t, Integrations{Gateway: gw})
	token := s.register("owner@example.com")

	var quote struct {
		ID     string `json:"id"`
		Slug   string `json:"slug"`
		Total  int64  `json:"total"`
		Status string `json:"status"`
	}
	code := s.do(http.MethodPost, "/api/quotes", token, map[string]any{
		"client_name":  "Ada Lovelace",
		"client_email": "ada@example.com",
		"title":        "Website redesign",
		"tax_rate":     10,
		"line_items": []map[string]any{
			{"description": "Design", "quantity": 2, "unit_price": 50},
		},
	}, &quote)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if quote.Total != 11000 || quote.Status != "draft" {
		t.Fatalf("created quote = %+v", quote)
	}

	// Draft teklif public olarak görünmez.
	if code := s.do(http.MethodGet, "/api/public/quotes/"+quote.Slug, "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("draft public view = %d, want 404", code)
	}

	if code := s.do(http.MethodPost, "/api/quotes/"+quote.ID+"/send", token, nil, nil); code != http.StatusOK {
		t.Fatalf("send = %d", code)
	}

	var public struct {
		BusinessName string `json:"business_name"`
		Status       string `json:"status"`
	}
	if code := s.do(http.MethodGet, "/api/public/quotes/"+quote.Slug, "", nil, &public); code != http.StatusOK {
		t.Fatalf("public view = %d", code)
	}
	if public.BusinessName != "Acme Studio" || public.Status != "sent" {
		t.Fatalf("public quote = %+v", public)
	}

	if code := s.do(http.MethodPost, "/api/public/quotes/"+quote.Slug+"/accept", "", nil, nil); code != http.StatusOK {
		t.Fatalf("accept = %d", code)
	}
	if code := s.do(http.MethodPost, "/api/public/quotes/"+quote.Slug+"/accept", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("second accept = %d, want 404", code)
	}

	var pay struct {
		URL string `json:"url"`
	}
	if code := s.do(http.MethodPost, "/api/public/quotes/"+quote.Slug+"/pay", "", nil, &pay); code != http.StatusOK {
		t.Fatalf("pay = %d", code)
	}
	if pay.URL != "https://checkout.test/cs_1" || len(gw.checkouts) != 1 {
		t.Fatalf("pay url = %q, checkouts = %d", pay.URL, len(gw.checkouts))
	}

	event := payment.WebhookEvent{
		ID:   "evt_1",
		Type: payment.EventCheckoutCompleted,
		Checkout: &payment.CheckoutCompleted{
			SessionID:     "cs_1",
			Metadata:      gw.checkouts[0].Metadata,
			AmountTotal:   11000,
			PaymentIntent: "pi_1",
		},
	}
	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(event)
		req, _ := http.NewRequest(http.MethodPost, s.srv.URL+"/api/webhooks/stripe", bytes.NewReader(body))
		req.Header.Set("Stripe-Signature", "ok")
		resp, err := s.srv.Client().Do(req)
		if err != nil {
			t.Fatalf("webhook: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("webhook delivery %d = %d", i+1, resp.StatusCode)
		}
	}

	var stats struct {
		TotalQuotes  int   `json:"total_quotes"`
		PaidQuotes   int   `json:"paid_quotes"`
		TotalViews   int64 `json:"total_views"`
		TotalRevenue int64 `json:"total_revenue"`
	}
	if code := s.do(http.MethodGet, "/api/stats", token, nil, &stats); code != http.StatusOK {
		t.Fatalf("stats = %d", code)
	}
	if stats.TotalQuotes != 1 || stats.PaidQuotes != 1 || stats.TotalViews != 1 || stats.TotalRevenue != 11000 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, Integrations{})

	for _, path := range []string{"/api/quotes", "/api/stats", "/api/auth/me"} {
		if code := s.do(http.MethodGet, path, "", nil, nil); code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, code)
		}
	}
	if code := s.do(http.MethodGet, "/api/quotes", "not-a-jwt", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", code)
	}
}

func TestQuotesAreScopedToOwner(t *testing.T) {
	s := newTestServer(t, Integrations{})
	alice := s.register("alice@example.com")
	bob := s.register("bob@example.com")

	var quote struct {
		ID string `json:"id"`
	}
	s.do(http.MethodPost, "/api/quotes", alice, map[string]any{
		"client_name":  "Client",
		"client_email": "client@example.com",
		"title":        "Logo",
		"line_items":   []map[string]any{{"description": "Logo", "quantity": 1, "unit_price": 300}},
	}, &quote)

	if code := s.do(http.MethodGet, "/api/quotes/"+quote.ID, bob, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign get = %d, want 404", code)
	}
	if code := s.do(http.MethodDelete, "/api/quotes/"+quote.ID, bob, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign delete = %d, want 404", code)
	}

	var list []json.RawMessage
	s.do(http.MethodGet, "/api/quotes", bob, nil, &list)
	if len(list) != 0 {
		t.Fatalf("bob sees %d quotes", len(list))
	}
}

func TestPaymentsNotConfigured(t *testing.T) {
	s := newTestServer(t, Integrations{})
	token := s.register("owner@example.com")

	if code := s.do(http.MethodPost, "/api/billing/checkout", token, nil, nil); code != http.StatusServiceUnavailable {
		t.Fatalf("checkout without stripe = %d, want 503", code)
	}
	// Webhook yapılandırılmamışsa işlenmeden kabul edilir.
	if code := s.do(http.MethodPost, "/api/webhooks/stripe", "", map[string]string{"id": "evt"}, nil); code != http.StatusOK {
		t.Fatalf("webhook without stripe = %d, want 200", code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	s := newTestServer(t, Integrations{})
	s.register("owner@example.com")

	bad := map[string]string{"email": "owner@example.com", "password": "wrong"}
	for i := 0; i < loginMaxAttempts; i++ {
		if code := s.do(http.MethodPost, "/api/auth/login", "", bad, nil); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i+1, code)
		}
	}
	if code := s.do(http.MethodPost, "/api/auth/login", "", bad, nil); code != http.StatusTooManyRequests {
		t.Fatalf("over limit = %d, want 429", code)
	}
}

func TestLoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	s := newTestServer(t, Integrations{})
	s.register("owner@example.com")

	body := `{"email":"owner@example.com","password":"wrong"}`
	var codes []int
	for i := 0; i < loginMaxAttempts+2; i++ {
		req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/api/auth/login", strings.NewReader(body))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1))

		resp, err := s.srv.Client().Do(req)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	if last := codes[len(codes)-1]; last != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want the limit to hold across rotating forwarding headers", codes)
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	s := newTestServer(t, Integrations{})

	code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "owner@example.com",
		"password": strings.Repeat("x", 80),
	}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("register with 80-byte password = %d, want 400", code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Integrations{})
	if code := s.do(http.MethodGet, "/api/health", "", nil, nil); code != http.StatusOK {
		t.Fatalf("health = %d", code)
	}
}
